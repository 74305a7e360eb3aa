// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultMode is used when a mode of zero is passed to WriteFile.
const DefaultMode os.FileMode = 0o644

var closeFile = (*os.File).Close

// WriteFile writes data to path. It writes to a temporary file and then
// moves it into place so readers never observe a partial file. Unless force
// is set an existing path is an error wrapping os.ErrExist.
func WriteFile(path string, data []byte, mode os.FileMode, force bool) (err error) {
	if mode == 0 {
		mode = DefaultMode
	}
	if !force {
		if _, err := os.Lstat(path); err == nil {
			return fmt.Errorf("%s: %w", path, os.ErrExist)
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFile(f); err == nil {
			err = cerr
		}
		if err == nil {
			err = os.Rename(tmp, path)
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	// OpenFile applies the umask; set the requested bits explicitly.
	if err = f.Chmod(mode); err != nil {
		return err
	}
	return f.Sync()
}

// Touch creates an empty file at path.
func Touch(path string, mode os.FileMode, force bool) error {
	return WriteFile(path, nil, mode, force)
}

// ParseMode parses an octal permission string such as "644" or "0o600".
func ParseMode(s string) (os.FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		if len(s) > 2 && (s[:2] == "0o" || s[:2] == "0O") {
			n, err = strconv.ParseUint(s[2:], 8, 32)
		}
		if err != nil {
			return 0, fmt.Errorf("invalid file mode %q", s)
		}
	}
	if n > 0o777 {
		return 0, fmt.Errorf("invalid file mode %q: only permission bits are allowed", s)
	}
	return os.FileMode(n), nil
}
