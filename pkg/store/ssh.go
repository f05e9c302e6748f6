package store

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"

	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/files"
)

// ResolveKeyFile finds a private key for host:port. An IdentityFile from a
// matching ~/.ssh/config block wins; otherwise the first usable key in the
// runpod key directory is returned. None means no key is available.
func (f FileStore) ResolveKeyFile(host string, port int) (mo.Option[string], error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return mo.None[string](), breverrors.WrapAndTrace(err)
	}

	fromConfig, err := f.identityFromSSHConfig(home, host, port)
	if err != nil {
		return mo.None[string](), breverrors.WrapAndTrace(err)
	}
	if fromConfig.IsPresent() {
		return fromConfig, nil
	}

	keyDir := f.sshKeyDir
	if keyDir == "" {
		keyDir = files.GetSSHKeyDirPath(home)
	}
	return f.firstUsableKey(expandHome(keyDir, home))
}

func (f FileStore) identityFromSSHConfig(home, host string, port int) (mo.Option[string], error) {
	path := files.GetUserSSHConfigPath(home)
	exists, err := files.Exists(f.fs, path, false)
	if err != nil {
		return mo.None[string](), breverrors.WrapAndTrace(err)
	}
	if !exists {
		return mo.None[string](), nil
	}
	content, err := files.ReadString(f.fs, path)
	if err != nil {
		return mo.None[string](), breverrors.WrapAndTrace(err)
	}
	cfg, err := ssh_config.Decode(strings.NewReader(content))
	if err != nil {
		// an unparsable user config should not block key discovery
		return mo.None[string](), nil
	}

	for _, h := range cfg.Hosts {
		if isCatchAll(h) {
			continue
		}
		kv := hostKVs(h)
		if !h.Matches(host) && !strings.EqualFold(kv["hostname"], host) {
			continue
		}
		if p, ok := kv["port"]; ok && p != strconv.Itoa(port) {
			continue
		}
		identity, ok := kv["identityfile"]
		if !ok {
			continue
		}
		identity = expandHome(identity, home)
		if f.isUsableKey(identity) {
			return mo.Some(identity), nil
		}
	}
	return mo.None[string](), nil
}

func (f FileStore) firstUsableKey(dir string) (mo.Option[string], error) {
	exists, err := files.Exists(f.fs, dir, true)
	if err != nil {
		return mo.None[string](), breverrors.WrapAndTrace(err)
	}
	if !exists {
		return mo.None[string](), nil
	}
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return mo.None[string](), breverrors.WrapAndTrace(err)
	}
	names := lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		name := e.Name()
		return name, !e.IsDir() && !strings.HasSuffix(name, ".pub") && name != "known_hosts" && name != "config"
	})
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if f.isUsableKey(path) {
			return mo.Some(path), nil
		}
	}
	return mo.None[string](), nil
}

// isUsableKey is true for unencrypted private keys; passphrase protected keys
// cannot be used without a prompt.
func (f FileStore) isUsableKey(path string) bool {
	b, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return false
	}
	_, err = ssh.ParsePrivateKey(b)
	return err == nil
}

func isCatchAll(h *ssh_config.Host) bool {
	return lo.EveryBy(h.Patterns, func(p *ssh_config.Pattern) bool {
		return p.String() == "*"
	})
}

func hostKVs(h *ssh_config.Host) map[string]string {
	kv := map[string]string{}
	for _, node := range h.Nodes {
		if n, ok := node.(*ssh_config.KV); ok {
			key := strings.ToLower(n.Key)
			if _, seen := kv[key]; !seen {
				kv[key] = n.Value
			}
		}
	}
	return kv
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
