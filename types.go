package edsearch

import "github.com/cockroachdb/errors"

// Category identifies one of the content kinds the engine searches.
type Category string

const (
	// CategoryLessons covers course lessons.
	CategoryLessons Category = "lessons"
	// CategoryKnowledgeCards covers knowledge cards.
	CategoryKnowledgeCards Category = "knowledgeCards"
	// CategoryStudentWorks covers published student works.
	CategoryStudentWorks Category = "studentWorks"
	// CategoryResources covers downloadable resources.
	CategoryResources Category = "resources"
)

// Categories returns all known categories in their fixed merge order.
func Categories() []Category {
	return []Category{
		CategoryLessons,
		CategoryKnowledgeCards,
		CategoryStudentWorks,
		CategoryResources,
	}
}

// ParseCategory maps a category name to a Category.
// Unknown names return false.
func ParseCategory(name string) (Category, bool) {
	switch Category(name) {
	case CategoryLessons, CategoryKnowledgeCards, CategoryStudentWorks, CategoryResources:
		return Category(name), true
	default:
		return "", false
	}
}

// ErrorCode represents specific error codes for engine operations.
type ErrorCode int

const (
	// ErrCodeSegmentation is returned when word segmentation fails.
	ErrCodeSegmentation ErrorCode = iota + 1000

	// ErrCodeStoreUnavailable is returned when the content store cannot be queried.
	ErrCodeStoreUnavailable

	// ErrCodeInvalidExpression is returned when a filter expression cannot be lowered.
	ErrCodeInvalidExpression

	// ErrCodeTimeout is returned when a store query times out.
	ErrCodeTimeout

	// ErrCodeCanceled is returned when a search is canceled.
	ErrCodeCanceled
)

// String returns the human-readable string representation of the error code.
// This implements the fmt.Stringer interface.
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeSegmentation:
		return "segmentation failed"
	case ErrCodeStoreUnavailable:
		return "content store unavailable"
	case ErrCodeInvalidExpression:
		return "invalid expression"
	case ErrCodeTimeout:
		return "operation timed out"
	case ErrCodeCanceled:
		return "operation canceled"
	default:
		return "unknown error"
	}
}

// newErrorWithCode creates a new error with a code and message.
func newErrorWithCode(code ErrorCode, msg string) error {
	err := errors.New(msg)
	return errors.WithSecondaryError(err, errors.Newf("code: %d", int(code)))
}

// Common errors that can be returned by engine operations.
var (
	// ErrSegmentation is returned when the segmenter fails on a query.
	// Segmentation failures propagate; tokens are never guessed.
	ErrSegmentation = newErrorWithCode(ErrCodeSegmentation, "edsearch: segmentation failed")

	// ErrStoreUnavailable is returned when a content store query fails.
	ErrStoreUnavailable = newErrorWithCode(ErrCodeStoreUnavailable, "edsearch: content store unavailable")

	// ErrInvalidExpression is returned when a store adapter cannot lower an expression.
	ErrInvalidExpression = newErrorWithCode(ErrCodeInvalidExpression, "edsearch: invalid expression")

	// ErrTimeout is returned when a store query times out.
	ErrTimeout = newErrorWithCode(ErrCodeTimeout, "edsearch: operation timed out")

	// ErrCanceled is returned when a search is canceled.
	ErrCanceled = newErrorWithCode(ErrCodeCanceled, "edsearch: operation canceled")
)
