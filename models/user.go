package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered account. Password holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
}
