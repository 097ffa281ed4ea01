package main

import (
	"astrohunt/internal/config"
	"astrohunt/internal/model"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the admin account and a small demo level/question set.
func main() {
	cfg := config.Load()
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set to seed the admin account")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	users := db.Collection("users")
	levels := db.Collection("levels")
	questions := db.Collection("questions")

	// Admin account (skipped if it already exists)
	var existing model.User
	err = users.FindOne(ctx, bson.M{"email": cfg.AdminEmail}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		_, err = users.InsertOne(ctx, model.User{
			Name:         "Game Admin",
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
			CreatedAt:    time.Now(),
		})
		if err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Created admin account %s", cfg.AdminEmail)
	} else if err != nil {
		log.Fatalf("Failed to look up admin: %v", err)
	} else {
		log.Printf("Admin account %s already exists", cfg.AdminEmail)
	}

	adminID := existing.ID
	if adminID.IsZero() {
		var created model.User
		if err := users.FindOne(ctx, bson.M{"email": cfg.AdminEmail}).Decode(&created); err != nil {
			log.Fatalf("Failed to reload admin: %v", err)
		}
		adminID = created.ID
	}

	// Demo level with two questions
	count, err := levels.CountDocuments(ctx, bson.M{"level": 1})
	if err != nil {
		log.Fatalf("Failed to check levels: %v", err)
	}
	if count > 0 {
		log.Println("Level 1 already exists, nothing to do")
		return
	}

	level := model.Level{
		Level:       1,
		QuestionIDs: []primitive.ObjectID{},
		CreatedAt:   time.Now(),
	}
	levelRes, err := levels.InsertOne(ctx, level)
	if err != nil {
		log.Fatalf("Failed to create level: %v", err)
	}
	levelID := levelRes.InsertedID.(primitive.ObjectID)

	demo := []model.Question{
		{
			LevelID:     levelID,
			Title:       "The Observatory",
			Description: "Find the plaque under the main telescope and enter the code engraved on it.",
			Hints: []model.Hint{
				{Text: "It is on the ground floor", UnlockTime: model.DefaultHintUnlockMinutes},
				{Text: "Look below eye level", UnlockTime: model.DefaultHintUnlockMinutes},
			},
			CorrectCode: "XJ9",
			Points:      model.DefaultQuestionPoints,
			CreatedBy:   adminID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
		{
			LevelID:     levelID,
			Title:       "Star Chart",
			Description: "Decode the constellation puzzle posted at the entrance.",
			Hints: []model.Hint{
				{Text: "Count the brightest stars", UnlockTime: model.DefaultHintUnlockMinutes},
			},
			CorrectCode: "ORION7",
			Points:      model.DefaultQuestionPoints,
			CreatedBy:   adminID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}

	ids := make([]primitive.ObjectID, 0, len(demo))
	for _, q := range demo {
		res, err := questions.InsertOne(ctx, q)
		if err != nil {
			log.Fatalf("Failed to create question: %v", err)
		}
		ids = append(ids, res.InsertedID.(primitive.ObjectID))
	}

	if _, err := levels.UpdateOne(ctx, bson.M{"_id": levelID}, bson.M{
		"$set": bson.M{"questions": ids},
	}); err != nil {
		log.Fatalf("Failed to link questions to level: %v", err)
	}

	log.Printf("Seeded level 1 with %d questions", len(ids))
}
