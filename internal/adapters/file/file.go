package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// OpenAppend opens path for appending, creating the file and its parent directories when missing.
func OpenAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		err = fmt.Errorf("error creating log directory %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		err = fmt.Errorf("error opening log file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	log.Debug().Str("path", f.Name()).Msg("opened append-only file")

	return f, nil
}

// Read returns the content of the file at path.
func Read(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("error reading file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	log.Debug().Int("bytes", len(buf)).Str("path", path).Msg("read file")

	return buf, nil
}

// Write stores data at path, replacing any existing file.
func Write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			err = fmt.Errorf("error creating directory %w", err)
			log.Error().Err(err).Str("path", path).Send()
			return err
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		err = fmt.Errorf("error writing file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return err
	}

	log.Debug().Int("bytes", len(data)).Str("path", path).Msg("wrote file")

	return nil
}
