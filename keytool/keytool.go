// Package keytool wraps the JDK keytool executable, which reports the
// certificates an .apk was signed with.
package keytool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrNoFingerprints is returned when keytool reports no SHA-256
// certificate fingerprint.
var ErrNoFingerprints = errors.New("sha256 cert fingerprints not found")

// SHA256CertFingerprints finds `keytool` on the PATH and runs
// SHA256CertFingerprints against it. See Command.SHA256CertFingerprints.
func SHA256CertFingerprints(ctx context.Context, name string) ([]string, error) {
	return Command("keytool").SHA256CertFingerprints(ctx, name)
}

// Command represents the path to a `keytool` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// SHA256CertFingerprints returns the SHA-256 fingerprint of every
// certificate the .apk at name is signed with, in the order keytool
// prints them.
func (c Command) SHA256CertFingerprints(ctx context.Context, name string) ([]string, error) {
	var (
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		//nolint:gosec
		cmd = exec.CommandContext(ctx, c.String(), "-printcert", "-jarfile", name)
	)

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s -printcert %s: %w: %s", c, name, err, msg)
		}

		return nil, fmt.Errorf("%s -printcert %s: %w", c, name, err)
	}

	return ParseFingerprints(stdout)
}

// ParseFingerprints reads the SHA256 lines of `keytool -printcert` output.
func ParseFingerprints(r io.Reader) ([]string, error) {
	var (
		fingerprints = []string{}
		scanner      = bufio.NewScanner(r)
	)
	for scanner.Scan() {
		if _, fingerprint, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "SHA256: "); ok {
			if fields := strings.Fields(fingerprint); len(fields) > 0 {
				fingerprints = append(fingerprints, fields[0])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(fingerprints) == 0 {
		return nil, ErrNoFingerprints
	}

	return fingerprints, nil
}
