package entity

import (
	"time"
)

// Category is the fixed set of blog categories. Anything outside the
// enumeration is rejected at validation time, never silently defaulted.
type Category string

const (
	CategoryTechnology  Category = "Technology"
	CategoryProgramming Category = "Programming"
	CategoryDesign      Category = "Design"
	CategoryBusiness    Category = "Business"
	CategoryLifestyle   Category = "Lifestyle"
	CategoryHealth      Category = "Health"
	CategoryOther       Category = "Other"
)

// Field length limits enforced on create and update.
const (
	TitleMaxLen   = 100
	SummaryMaxLen = 200
)

// Categories returns the enumeration in display order.
func Categories() []Category {
	return []Category{
		CategoryTechnology,
		CategoryProgramming,
		CategoryDesign,
		CategoryBusiness,
		CategoryLifestyle,
		CategoryHealth,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// AuthorRef is the public projection of a blog's author. Only id, name and
// avatar are ever exposed alongside a blog.
type AuthorRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Comment is embedded in its owning Blog and is not independently
// addressable. Name and Avatar are a snapshot of the commenting user's
// profile at comment time; they are deliberately not kept in sync with
// later profile edits.
type Comment struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar,omitempty"`
	Date   time.Time `json:"date"`
}

// Blog is the root aggregate. Likes is a set of user ids (no duplicates),
// Comments is ordered newest first. The author reference is set once at
// creation and never reassigned.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary,omitempty"`
	Image     string    `json:"image,omitempty"`
	Author    AuthorRef `json:"author"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikedBy reports whether the given user id is present in the likes set.
func (b *Blog) LikedBy(userID string) bool {
	for _, id := range b.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given id, or nil.
func (b *Blog) CommentByID(commentID string) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			return &b.Comments[i]
		}
	}
	return nil
}
