package facts

import "errors"

var (
	// ErrEmptyText is returned when fact text is empty or only whitespace
	ErrEmptyText = errors.New("fact cannot be empty")

	// ErrInvalidLimit is returned when a list limit is not positive
	ErrInvalidLimit = errors.New("limit must be positive")
)

// InsertResult is the outcome of adding a fact
type InsertResult int

const (
	Inserted InsertResult = iota
	InsertDuplicate
)

func (r InsertResult) OK() bool { return r == Inserted }

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case InsertDuplicate:
		return "duplicate"
	}
	return "unknown"
}

// UpdateResult is the outcome of changing a fact's text
type UpdateResult int

const (
	Updated UpdateResult = iota
	UpdateNotFound
	UpdateDuplicate
)

func (r UpdateResult) OK() bool { return r == Updated }

func (r UpdateResult) String() string {
	switch r {
	case Updated:
		return "updated"
	case UpdateNotFound:
		return "not found"
	case UpdateDuplicate:
		return "duplicate"
	}
	return "unknown"
}

// DeleteResult is the outcome of removing a fact
type DeleteResult int

const (
	Deleted DeleteResult = iota
	DeleteNotFound
)

func (r DeleteResult) OK() bool { return r == Deleted }

func (r DeleteResult) String() string {
	switch r {
	case Deleted:
		return "deleted"
	case DeleteNotFound:
		return "not found"
	}
	return "unknown"
}

// LikeResult is the outcome of liking a fact
type LikeResult int

const (
	Liked LikeResult = iota
	LikeDuplicate
	LikeNotFound
)

func (r LikeResult) OK() bool { return r == Liked }

func (r LikeResult) String() string {
	switch r {
	case Liked:
		return "liked"
	case LikeDuplicate:
		return "already liked"
	case LikeNotFound:
		return "fact not found"
	}
	return "unknown"
}

// UnlikeResult is the outcome of removing a like
type UnlikeResult int

const (
	Unliked UnlikeResult = iota
	UnlikeNotFound
)

func (r UnlikeResult) OK() bool { return r == Unliked }

func (r UnlikeResult) String() string {
	switch r {
	case Unliked:
		return "unliked"
	case UnlikeNotFound:
		return "not found"
	}
	return "unknown"
}
