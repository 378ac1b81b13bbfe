package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product model - MongoDB (menu items published by cooks)
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID    string             `bson:"vendor_id" json:"vendor_id"`
	VendorName  string             `bson:"vendor_name" json:"vendor_name"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageRef    string             `bson:"image_ref" json:"image_ref"`
	IsAvailable bool               `bson:"is_available" json:"is_available"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CartSnapshotDocument stores a serialized cart under its key - MongoDB
type CartSnapshotDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}
