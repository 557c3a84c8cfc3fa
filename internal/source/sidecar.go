package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/ayusman/animate/internal/landmark"
)

// Sidecar runs the detection service as a subprocess and reads
// newline-delimited JSON frames from its stdout. The subprocess owns the
// camera and the pose/hand/face models; only landmark data crosses the
// pipe. The process is started lazily on the first Next call.
type Sidecar struct {
	script string
	python string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  *bufio.Reader
	started bool
}

// NewSidecar creates a sidecar source for the detection script. The script
// is located the same way the service itself installs it: relative to the
// working directory, the executable, or ~/.animate.
func NewSidecar() (*Sidecar, error) {
	script := findDetectorScript()
	if script == "" {
		return nil, fmt.Errorf("detector_service.py not found")
	}
	return &Sidecar{script: script, python: findVenvPython()}, nil
}

// Next reads one frame from the detector, blocking until the sidecar emits
// it. Returns io.EOF when the subprocess exits.
func (s *Sidecar) Next() (*landmark.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}

	frame := &landmark.Frame{}
	if err := json.Unmarshal(line, frame); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}
	return frame, nil
}

// Close shuts the subprocess down.
func (s *Sidecar) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	err := s.cmd.Wait()
	s.cmd = nil
	s.stdout = nil
	return err
}

func (s *Sidecar) ensureStarted() error {
	if s.started {
		return nil
	}

	python := s.python
	if python == "" {
		python = "python3"
	}

	s.cmd = exec.Command(python, s.script)
	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start detector service: %w", err)
	}

	s.stdout = bufio.NewReader(stdout)
	s.started = true
	return nil
}

func findDetectorScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/detector_service.py",
		"../scripts/detector_service.py",
		filepath.Join(execDir, "scripts/detector_service.py"),
		filepath.Join(os.Getenv("HOME"), ".animate/scripts/detector_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment
// near the project or in ~/.animate.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".animate/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
