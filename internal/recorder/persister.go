package recorder

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/filex"
)

const fileTimeLayout = "2006-01-02_15-04-05"

var fileNameRe = regexp.MustCompile(`^recording_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.wav$`)

// IsRecordingFile reports whether name looks like a file produced by Save.
func IsRecordingFile(name string) bool {
	return fileNameRe.MatchString(name)
}

// FileName returns the recording file name for t.
func FileName(t time.Time) string {
	return "recording_" + t.Format(fileTimeLayout) + ".wav"
}

// Persister writes captured frames to WAV files under Dir/<user id>/.
type Persister struct {
	dir    string
	format audio.Format
	now    func() time.Time
}

func NewPersister(dir string, f audio.Format) *Persister {
	return &Persister{dir: dir, format: f, now: time.Now}
}

// Format returns the PCM format written by Save.
func (p *Persister) Format() audio.Format {
	return p.format
}

// Save concatenates frames into a WAV file and returns its base name and
// full path. No frames means common.ErrNoRecording and no file.
func (p *Persister) Save(userID string, frames [][]byte) (string, string, error) {
	if len(frames) == 0 {
		return "", "", common.ErrNoRecording
	}
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return "", "", fmt.Errorf("%w: bad user id %q", common.ErrorValidation, userID)
	}

	wav, err := audio.EncodeWAV(bytes.Join(frames, nil), p.format)
	if err != nil {
		return "", "", fmt.Errorf("encode wav: %w", err)
	}

	dir, err := filex.EnsureDir(filepath.Join(p.dir, userID))
	if err != nil {
		return "", "", err
	}

	name := FileName(p.now())
	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, wav, 0o640); err != nil {
		return "", "", err
	}

	return name, path, nil
}
