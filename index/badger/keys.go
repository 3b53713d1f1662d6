package badger

import "fmt"

// Key prefixes for the different record kinds.
const (
	collectionMetaPrefix = "colmeta"
	pointPrefix          = "point"
	aliasPrefix          = "alias"
)

// makeCollectionMetaKey addresses a collection's metadata record.
func makeCollectionMetaKey(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, collection))
}

// makePointKey addresses one point within a collection.
func makePointKey(collection, pointID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", pointPrefix, collection, pointID))
}

// makePointScanPrefix is the prefix shared by all points of a collection.
func makePointScanPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", pointPrefix, collection))
}

// makeAliasKey addresses one alias record. The value is the collection name.
func makeAliasKey(alias string) []byte {
	return []byte(fmt.Sprintf("%s:%s", aliasPrefix, alias))
}

// aliasScanPrefix is the prefix shared by all alias records.
func aliasScanPrefix() []byte {
	return []byte(aliasPrefix + ":")
}
