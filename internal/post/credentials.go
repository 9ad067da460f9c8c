package post

import (
	"encoding/gob"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/McKael/madon"
)

// Credentials are stored as one gob file per instance under the
// application data path, next to the events database.

func InstanceName(inst string) string {
	if u, err := url.ParseRequestURI(inst); err == nil {
		inst = u.Host
	}
	return url.PathEscape(filepath.Clean(filepath.Base(inst)))
}

func ValidMastodonApp(c *madon.Client) bool {
	return c != nil && c.Name != "" && c.ID != "" && c.Secret != "" && c.APIBase != "" && c.InstanceURL != ""
}

func ValidMastodonAuth(c *madon.Client) bool {
	return ValidMastodonApp(c) && c.UserToken != nil && c.UserToken.AccessToken != ""
}

func LoadMastodonCredentials(c *madon.Client, path string) error {
	f, err := os.OpenFile(path, os.O_RDONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to load credentials file %s: %w", path, err)
	}
	defer f.Close()
	d := gob.NewDecoder(f)
	return d.Decode(c)
}

func SaveMastodonCredentials(c *madon.Client, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	d := gob.NewEncoder(f)
	return d.Encode(c)
}

// LoadCredentials returns every authorized client found under path. Files
// that don't decode to a valid client (the events db lives in the same
// dir) are skipped.
func LoadCredentials(path string) ([]*madon.Client, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials dir %s: %w", path, err)
	}
	creds := make([]*madon.Client, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		c := new(madon.Client)
		if err := LoadMastodonCredentials(c, filepath.Join(path, e.Name())); err != nil {
			continue
		}
		if ValidMastodonAuth(c) {
			creds = append(creds, c)
		}
	}
	return creds, nil
}
