package app

import (
    "bufio"
    "errors"
    "os"
    "strings"
)

// DefaultEnvFile is loaded at startup when no --env-file is given.
const DefaultEnvFile = ".env"

// LoadEnvFiles loads dotenv files of KEY=VALUE pairs into the process
// environment. Later files override earlier ones; missing files are skipped.
// Variables already present in the environment are left untouched unless
// override is set.
func LoadEnvFiles(override bool, paths ...string) error {
    keep := map[string]bool{}
    if !override {
        for _, kv := range os.Environ() {
            if i := strings.IndexByte(kv, '='); i > 0 {
                keep[kv[:i]] = true
            }
        }
    }
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        if err := loadEnvFile(p, keep); err != nil {
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}

func loadEnvFile(path string, keep map[string]bool) error {
    f, err := os.Open(path)
    if err != nil {
        return err
    }
    defer f.Close()

    scanner := bufio.NewScanner(f)
    for scanner.Scan() {
        key, val, ok := parseEnvLine(scanner.Text())
        if !ok {
            continue
        }
        if keep[key] {
            continue
        }
        _ = os.Setenv(key, val)
    }
    return scanner.Err()
}

// parseEnvLine accepts "KEY=VALUE" and "export KEY=VALUE". Quoted values keep
// their content verbatim; unquoted values drop a trailing " #" comment.
func parseEnvLine(line string) (string, string, bool) {
    line = strings.TrimSpace(line)
    if line == "" || strings.HasPrefix(line, "#") {
        return "", "", false
    }
    line = strings.TrimPrefix(line, "export ")
    eq := strings.IndexByte(line, '=')
    if eq <= 0 {
        return "", "", false
    }
    key := strings.TrimSpace(line[:eq])
    val := strings.TrimSpace(line[eq+1:])
    if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') {
        if end := strings.IndexByte(val[1:], val[0]); end >= 0 {
            return key, val[1 : end+1], true
        }
    }
    if i := strings.Index(val, " #"); i >= 0 {
        val = strings.TrimSpace(val[:i])
    }
    return key, val, true
}
