package devicemanager

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/hal"
)

// loadProfiles reads a newline-delimited JSON file of hal.DeviceProfile
// records. A missing file is treated as an empty profile set rather than
// an error, so a fresh deployment can start with no persisted profiles.
func loadProfiles(path string) (map[string]hal.DeviceProfile, error) {
	profiles := make(map[string]hal.DeviceProfile)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return profiles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: opening device profile store: %s", errkind.ErrIO, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p hal.DeviceProfile
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("%w: malformed device profile line: %s", errkind.ErrIO, err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		profiles[p.ProfileID] = p
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading device profile store: %s", errkind.ErrIO, err)
	}

	return profiles, nil
}

// saveProfiles rewrites the whole store atomically (write to a temp file,
// then rename) so a reload triggered mid-write by fsnotify never observes
// a half-written file. Entries are written sorted by profile id for a
// stable diff-friendly file.
func saveProfiles(path string, profiles map[string]hal.DeviceProfile) error {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: creating device profile store: %s", errkind.ErrIO, err)
	}

	w := bufio.NewWriter(f)
	for _, id := range ids {
		line, err := json.Marshal(profiles[id])
		if err != nil {
			f.Close()
			return fmt.Errorf("%w: encoding device profile %q: %s", errkind.ErrIO, id, err)
		}
		if _, err := w.Write(line); err != nil {
			f.Close()
			return fmt.Errorf("%w: writing device profile store: %s", errkind.ErrIO, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return fmt.Errorf("%w: writing device profile store: %s", errkind.ErrIO, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: flushing device profile store: %s", errkind.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing device profile store: %s", errkind.ErrIO, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: publishing device profile store: %s", errkind.ErrIO, err)
	}
	return nil
}
