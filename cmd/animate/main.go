package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/server"
	"github.com/ayusman/animate/internal/session"
	"github.com/ayusman/animate/internal/source"
	"github.com/ayusman/animate/internal/store"
)

var (
	addr        = flag.String("addr", ":8080", "HTTP listen address")
	mappingName = flag.String("mapping", "", "bind this rig mapping at startup; without it, clients bind via POST /api/session")
	capture     = flag.Bool("capture", false, "pull frames from the local Python detector instead of the /api/frames socket (requires -mapping)")
)

func main() {
	flag.Parse()
	fmt.Println("AniMate - Landmark to Bone Retargeting")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".animate")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "animate.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Register built-in rig conventions, then any stored custom mappings
	registry := rig.NewRegistry()
	if err := registry.RegisterBuiltins(); err != nil {
		log.Fatalf("Failed to register builtin rigs: %v", err)
	}
	if err := loadStoredMappings(registry, st); err != nil {
		log.Printf("Failed to load stored rig mappings: %v", err)
	}

	engine, err := retarget.New(registry, retarget.DefaultOptions())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	// With -mapping the daemon starts bound: frames from /api/frames (or
	// the local detector with -capture) land in poses readable at
	// /api/session/pose. Without it, clients bind via POST /api/session.
	if *mappingName != "" {
		m, err := registry.Get(*mappingName)
		if err != nil {
			log.Fatalf("Unknown rig mapping %q: %v", *mappingName, err)
		}
		if err := engine.Bind(retarget.PoseBufferFor(m), m.Name); err != nil {
			log.Fatalf("Failed to bind mapping %q: %v", m.Name, err)
		}
		fmt.Printf("Bound rig mapping %q (%d bones)\n", m.Name, len(m.Bones))
	}

	var sess *session.Session
	if *capture {
		if *mappingName == "" {
			log.Fatal("-capture requires -mapping")
		}
		src, err := source.NewSidecar()
		if err != nil {
			log.Fatalf("Failed to start detector: %v", err)
		}
		defer src.Close()

		sess = session.New(engine, src)
		sess.Start()
		defer sess.Stop()
		fmt.Printf("Capture session %s started\n", sess.ID())
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	cfg := server.Config{
		StaticDir: webDir,
		Registry:  registry,
		Store:     st,
		Engine:    engine,
		Session:   sess,
	}

	srv := server.New(cfg)

	fmt.Printf("Starting server on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadStoredMappings registers every mapping persisted in the store. A
// mapping that fails validation is skipped with a log line so one bad row
// cannot block startup.
func loadStoredMappings(registry *rig.Registry, st *store.Store) error {
	infos, err := st.Mappings().List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		m, err := st.Mappings().Get(info.Name)
		if err != nil {
			log.Printf("Failed to load stored mapping %q: %v", info.Name, err)
			continue
		}
		if err := registry.Register(m); err != nil {
			log.Printf("Stored mapping %q failed validation: %v", info.Name, err)
			continue
		}
		log.Printf("Registered stored rig mapping %q (%d bones)", info.Name, info.Bones)
	}
	return nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.animate/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".animate", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
