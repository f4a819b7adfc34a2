package advertisement

// Advertisement is a posted advertisement.
type Advertisement struct {
	ID         int64
	Title      string
	Author     string
	ViewsCount int64
	Position   *int32
}

type CreateAdvertisementParams struct {
	Title      string
	Author     string
	ViewsCount int64
	Position   *int32
}

type UpdateAdvertisementParams struct {
	ID         int64
	Title      string
	Author     string
	ViewsCount int64
	Position   *int32
}
