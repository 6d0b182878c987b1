package pipeline

import "path"

// BaseName derives the job namespace from an object key: the key's basename
// with only the final extension stripped. Derivation is idempotent for keys
// without an extension.
func BaseName(key string) string {
	name := path.Base(key)
	ext := path.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return name[:len(name)-len(ext)]
}
