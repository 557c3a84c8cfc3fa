package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/space"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// MappingInfo is the stored metadata of one rig mapping.
type MappingInfo struct {
	ID        string
	Name      string
	Root      string
	Bones     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MappingRepository provides CRUD operations for stored rig mappings.
type MappingRepository struct {
	db *sql.DB
}

// Mappings returns the mapping repository for this store.
func (s *Store) Mappings() *MappingRepository {
	return &MappingRepository{db: s.db}
}

// Save upserts a mapping under its name, replacing any previously stored
// bone set, and returns the stored row's ID.
func (r *MappingRepository) Save(m *rig.Mapping) (string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	now := time.Now()
	var id string
	err = tx.QueryRow(`SELECT id FROM rig_mappings WHERE name = ?`, m.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := tx.Exec(
			`INSERT INTO rig_mappings (id, name, root, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			id, m.Name, m.Root, now, now,
		); err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		if _, err := tx.Exec(
			`UPDATE rig_mappings SET root = ?, updated_at = ? WHERE id = ?`,
			m.Root, now, id,
		); err != nil {
			return "", err
		}
		if _, err := tx.Exec(`DELETE FROM rig_bones WHERE mapping_id = ?`, id); err != nil {
			return "", err
		}
	}

	for seq, b := range m.Bones {
		landmarks, err := json.Marshal(b.Landmarks)
		if err != nil {
			return "", err
		}
		corr := b.AxisCorrection
		if (corr == quat.Number{}) {
			corr = space.Identity()
		}
		scale := b.Scale
		if scale == 0 {
			scale = 1.0
		}
		if _, err := tx.Exec(
			`INSERT INTO rig_bones
			 (mapping_id, seq, name, parent, region, rule, landmarks,
			  limit_x_min, limit_x_max, limit_y_min, limit_y_max, limit_z_min, limit_z_max,
			  corr_w, corr_x, corr_y, corr_z, scale)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, seq, b.Name, b.Parent, string(b.Region), string(b.Rule), string(landmarks),
			boundOrNull(b.Limits.X.Min), boundOrNull(b.Limits.X.Max),
			boundOrNull(b.Limits.Y.Min), boundOrNull(b.Limits.Y.Max),
			boundOrNull(b.Limits.Z.Min), boundOrNull(b.Limits.Z.Max),
			corr.Real, corr.Imag, corr.Jmag, corr.Kmag, scale,
		); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Get loads a stored mapping by name.
func (r *MappingRepository) Get(name string) (*rig.Mapping, error) {
	var id, root string
	err := r.db.QueryRow(`SELECT id, root FROM rig_mappings WHERE name = ?`, name).Scan(&id, &root)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT name, parent, region, rule, landmarks,
		        limit_x_min, limit_x_max, limit_y_min, limit_y_max, limit_z_min, limit_z_max,
		        corr_w, corr_x, corr_y, corr_z, scale
		 FROM rig_bones WHERE mapping_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := &rig.Mapping{Name: name, Root: root}
	for rows.Next() {
		var (
			b            rig.BoneDef
			region, rule string
			landmarksRaw string
			xMin, xMax   sql.NullFloat64
			yMin, yMax   sql.NullFloat64
			zMin, zMax   sql.NullFloat64
		)
		if err := rows.Scan(
			&b.Name, &b.Parent, &region, &rule, &landmarksRaw,
			&xMin, &xMax, &yMin, &yMax, &zMin, &zMax,
			&b.AxisCorrection.Real, &b.AxisCorrection.Imag, &b.AxisCorrection.Jmag, &b.AxisCorrection.Kmag,
			&b.Scale,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(landmarksRaw), &b.Landmarks); err != nil {
			return nil, fmt.Errorf("bone %q landmarks: %w", b.Name, err)
		}
		b.Region = landmark.Region(region)
		b.Rule = rig.Rule(rule)
		b.Limits = space.Limits{
			X: space.AxisLimit{Min: boundOrInf(xMin, -1), Max: boundOrInf(xMax, 1)},
			Y: space.AxisLimit{Min: boundOrInf(yMin, -1), Max: boundOrInf(yMax, 1)},
			Z: space.AxisLimit{Min: boundOrInf(zMin, -1), Max: boundOrInf(zMax, 1)},
		}
		m.Bones = append(m.Bones, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// List returns metadata for every stored mapping, newest first.
func (r *MappingRepository) List() ([]*MappingInfo, error) {
	rows, err := r.db.Query(
		`SELECT m.id, m.name, m.root, m.created_at, m.updated_at,
		        (SELECT COUNT(*) FROM rig_bones b WHERE b.mapping_id = m.id)
		 FROM rig_mappings m ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []*MappingInfo
	for rows.Next() {
		info := &MappingInfo{}
		if err := rows.Scan(&info.ID, &info.Name, &info.Root, &info.CreatedAt, &info.UpdatedAt, &info.Bones); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Delete removes a stored mapping and its bones by name.
func (r *MappingRepository) Delete(name string) error {
	result, err := r.db.Exec(`DELETE FROM rig_mappings WHERE name = ?`, name)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// boundOrNull maps infinite limit bounds to NULL for storage.
func boundOrNull(v float64) any {
	if math.IsInf(v, 0) {
		return nil
	}
	return v
}

// boundOrInf maps NULL limit bounds back to the unbounded sentinel. sign is
// -1 for a lower bound, +1 for an upper bound.
func boundOrInf(v sql.NullFloat64, sign int) float64 {
	if !v.Valid {
		return math.Inf(sign)
	}
	return v.Float64
}
