package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const TruckCollection = "trucks"

type Truck struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"` // plate number
	DriverName string             `bson:"driverName,omitempty" json:"driverName,omitempty"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
}
