package pipeline

import "vodpress/internal/objectstore"

// SelectLatest picks the object with the maximum creation timestamp. Objects
// sharing the identical maximum timestamp are tie-broken by key, descending,
// so repeated listings of the same bucket always select the same object. The
// boolean is false for an empty listing.
func SelectLatest(objects []objectstore.ObjectInfo) (objectstore.ObjectInfo, bool) {
	if len(objects) == 0 {
		return objectstore.ObjectInfo{}, false
	}
	latest := objects[0]
	for _, obj := range objects[1:] {
		if obj.CreatedAt.After(latest.CreatedAt) {
			latest = obj
			continue
		}
		if obj.CreatedAt.Equal(latest.CreatedAt) && obj.Key > latest.Key {
			latest = obj
		}
	}
	return latest, true
}
