package model

import (
	"time"

	"github.com/lib/pq"
)

type Service struct {
	ID          string         `db:"id" json:"id"`
	Slug        string         `db:"slug" json:"slug"`
	Title       string         `db:"title" json:"title"`
	Tagline     string         `db:"tagline" json:"tagline"`
	Description string         `db:"description" json:"description"`
	Features    pq.StringArray `db:"features" json:"features"`
	AccentColor string         `db:"accent_color" json:"accentColor"`
	Image       string         `db:"image" json:"image"`
	Order       int            `db:"sort_order" json:"order"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

type ServiceParams struct {
	Slug        string   `json:"slug" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	AccentColor string   `json:"accentColor"`
	Image       string   `json:"image"`
	Order       int      `json:"order"`
}

type Project struct {
	ID          string         `db:"id" json:"id"`
	Slug        string         `db:"slug" json:"slug"`
	Title       string         `db:"title" json:"title"`
	Client      string         `db:"client" json:"client"`
	Year        string         `db:"year" json:"year"`
	Category    string         `db:"category" json:"category"`
	Description string         `db:"description" json:"description"`
	Thumbnail   string         `db:"thumbnail" json:"thumbnail"`
	Images      pq.StringArray `db:"images" json:"images"`
	Featured    bool           `db:"featured" json:"featured"`
	Order       int            `db:"sort_order" json:"order"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
	Services    []Service      `db:"-" json:"services"`
}

type ProjectParams struct {
	Slug        string   `json:"slug" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Client      string   `json:"client" validate:"required"`
	Year        string   `json:"year" validate:"required"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail" validate:"required"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
	Order       int      `json:"order"`
	ServiceIDs  []string `json:"services" validate:"omitempty,dive,uuid"`
}

type TeamMember struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	Bio       string    `db:"bio" json:"bio"`
	Avatar    string    `db:"avatar" json:"avatar"`
	LinkedIn  string    `db:"linkedin" json:"linkedin,omitempty"`
	Twitter   string    `db:"twitter" json:"twitter,omitempty"`
	Dribbble  string    `db:"dribbble" json:"dribbble,omitempty"`
	Active    bool      `db:"active" json:"active"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type TeamMemberParams struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
	Dribbble string `json:"dribbble"`
	Active   *bool  `json:"active"`
	Order    int    `json:"order"`
}

type Testimonial struct {
	ID        string    `db:"id" json:"id"`
	Quote     string    `db:"quote" json:"quote"`
	Author    string    `db:"author" json:"author"`
	Role      string    `db:"role" json:"role"`
	Company   string    `db:"company" json:"company"`
	Avatar    string    `db:"avatar" json:"avatar"`
	Featured  bool      `db:"featured" json:"featured"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type TestimonialParams struct {
	Quote    string `json:"quote" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Avatar   string `json:"avatar"`
	Featured bool   `json:"featured"`
	Order    int    `json:"order"`
}

type ContactMessage struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Service   *string   `db:"service" json:"service,omitempty"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateContactMessageParams struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message string  `json:"message" validate:"required"`
}
