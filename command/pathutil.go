package command

import "strings"

// toAbs resolves path against wd the way the original shell's
// convert_path_to_abs did: a leading "/" discards wd, otherwise path
// is taken relative to wd; segments are then applied in order, "."
// and empty ones skipped and ".." dropping the last component (never
// above "/").
func toAbs(wd, path string) string {
	parts := splitNonEmpty(wd)
	if strings.HasPrefix(path, "/") {
		parts = nil
	}
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

func splitNonEmpty(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanSlashes(path string) string {
	if path == "" {
		return "/"
	}
	parts := splitNonEmpty(path)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// splitParent divides an absolute path into its parent directory and
// final name component.
func splitParent(path string) (parent, name string) {
	parts := splitNonEmpty(path)
	if len(parts) == 0 {
		return "/", ""
	}
	name = parts[len(parts)-1]
	parent = "/" + strings.Join(parts[:len(parts)-1], "/")
	return parent, name
}
