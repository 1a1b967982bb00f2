package database

var separator = []byte("/")

// BuildKey builds a database key out of the given bucket path, where the last
// element is the key inside the innermost bucket.
func BuildKey(buckets ...[]byte) []byte {
	size := (len(buckets) - 1) * len(separator) // initialized to include the size of the separators
	for _, bucket := range buckets {
		size += len(bucket)
	}

	key := make([]byte, size)
	offset := 0
	for i, bucket := range buckets {
		copy(key[offset:], bucket)
		offset += len(bucket)
		if i == len(buckets)-1 {
			break
		}
		copy(key[offset:], separator)
		offset += len(separator)
	}

	return key
}

// BuildBucketKey builds a prefix that matches every key inside the given
// bucket path. Used for prefix iteration.
func BuildBucketKey(buckets ...[]byte) []byte {
	key := BuildKey(buckets...)
	size := len(key) + len(separator)
	bucketKey := make([]byte, size)

	copy(bucketKey, key)
	copy(bucketKey[len(key):], separator)

	return bucketKey
}
