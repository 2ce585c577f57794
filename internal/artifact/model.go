package artifact

// Artifact holds the three canonical mappings for one dataset. It is produced
// once by the builder and read-only afterwards.
type Artifact struct {
	// Interactions maps each dense user id to its timestamp-ordered item ids.
	Interactions map[int][]int
	// Indices maps each dense item id to its fixed-arity token list.
	Indices map[int][]string
	// Features maps each dense item id to its free-text feature record.
	// Optional; present only when the builder emitted item features.
	Features map[int]ItemFeatures
}

// ItemFeatures is the free-text feature record of one item.
type ItemFeatures struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
