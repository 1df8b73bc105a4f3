package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"formpilot/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "formpilot"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userID := primitive.NewObjectID()
	user := bson.M{
		"_id":               userID,
		"email":             "demo@formpilot.local",
		"passwordHash":      string(hash),
		"dataRetentionDays": 30,
		"formsCreated":      1,
		"totalResponses":    0,
		"totalUploads":      0,
	}
	if _, err := db.Collection("users").InsertOne(ctx, user); err != nil {
		log.Fatalf("Failed to insert user: %v", err)
	}

	questions := []model.Question{
		{
			Type:     model.QuestionTypeRating,
			Label:    "How satisfied were you with your visit overall?",
			Required: true,
		},
		{
			Type:    model.QuestionTypeMCQ,
			Label:   "What did you order?",
			Options: []string{"Espresso drinks", "Filter coffee", "Tea", "Food only"},
		},
		{
			Type:    model.QuestionTypeCheckbox,
			Label:   "What did you enjoy most?",
			Options: []string{"Coffee quality", "Service", "Atmosphere", "Price"},
		},
		{
			Type:     model.QuestionTypeText,
			Label:    "What is one thing we could improve?",
			Required: true,
		},
	}

	title := "Coffee Shop Customer Experience Survey"
	form := bson.M{
		"_id":       primitive.NewObjectID(),
		"ownerId":   userID.Hex(),
		"title":     title,
		"questions": questions,
		"theme":     model.Theme{PrimaryColor: model.DefaultPrimaryColor},
		"isPublic":  true,
		"createdAt": time.Now(),
		"updatedAt": time.Now(),
	}
	if _, err := db.Collection("forms").InsertOne(ctx, form); err != nil {
		log.Fatalf("Failed to insert form: %v", err)
	}

	fmt.Printf("Successfully created demo user 'demo@formpilot.local' with form '%s'\n", title)
}
