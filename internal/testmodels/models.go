package testmodels

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender of the [Student].
// ENUM(Male, Female)
type Gender string

// Student is a sample document used for testing.
type Student struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name" mimic:"required,lowercase,trim"`
	Email     string             `bson:"email"`
	BirthDate time.Time          `bson:"birth_date"`
	Gender    Gender             `bson:"gender"`
	Data      map[string]any     `bson:"data"`
	Results   []Result           `bson:"results"`
	IsStudent bool               `bson:"is_student"`
	Parent    primitive.ObjectID `bson:"parent" mimic:"ref=Parent"`
	Detail    Detail             `bson:"detail"`
	Tags      []string           `bson:"tags" mimic:"uppercase"`
	Address   *Address           `bson:"address" mimic:"embedded"`
	Token     uuid.UUID          `bson:"token"`
	CreatedAt time.Time          `bson:"created_at"`
	Audit     `bson:",inline"`
	internal  string
	Skipped   string `bson:"-"`
}

// Result of a single course.
type Result struct {
	Score  float64 `bson:"score" mimic:"min=0,max=100"`
	Course int     `bson:"course"`
}

// Detail is flattened into dotted paths.
type Detail struct {
	MainInfo  string `bson:"main_info"`
	SomeInfo  string `bson:"some_info"`
	NoneMatch string `bson:"none_match"`
}

// Address is kept as an embedded sub-document.
type Address struct {
	Street string `json:"street"`
	City   string
}

// Audit fields are inlined into the parent document.
type Audit struct {
	Revision int `bson:"revision" mimic:"min=1,max=5"`
}

type (
	// Level of a course.
	// ENUM(
	//   Beginner,
	//   Intermediate=2,
	//   Advanced
	// )
	Level string

	// Plain has no enum declaration.
	Plain string
)
