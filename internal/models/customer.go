package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CustomerCollection = "customers"

type Customer struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Initial string             `bson:"initial" json:"initial"` // short code printed on bons, unique
	Address string             `bson:"address,omitempty" json:"address,omitempty"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
}

func (c Customer) Ref() *CustomerRef {
	return &CustomerRef{CustomerID: c.ID.Hex(), Initial: c.Initial}
}

// NormalizeInitial is the stored form of a customer initial: trimmed and
// upper case.
func NormalizeInitial(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
