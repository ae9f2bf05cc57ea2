package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Test MongoDB
	fmt.Println("Testing MongoDB connection...")
	mongoURI := os.Getenv("MONGO_URI")
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("MongoDB connection failed:", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatal("MongoDB ping failed:", err)
	}
	fmt.Println("✅ MongoDB connected successfully!")

	// Test Resend
	fmt.Println("\nChecking Resend configuration...")
	if os.Getenv("RESEND_API_KEY") == "" {
		fmt.Println("⚠️  RESEND_API_KEY not set, magic-link and auction emails will only be logged")
	} else {
		fmt.Println("✅ Resend API key present!")
	}

	// Test Cloudinary
	fmt.Println("\nTesting Cloudinary connection...")
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		fmt.Println("⚠️  Cloudinary credentials missing, item images will be stored on local disk")
	} else {
		cldURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
		cld, err := cloudinary.NewFromURL(cldURL)
		if err != nil {
			log.Fatal("Cloudinary initialization failed:", err)
		}

		if cld.Config.Cloud.CloudName != cloudName {
			log.Fatal("Cloudinary config mismatch")
		}
		fmt.Println("✅ Cloudinary connected successfully!")
	}

	fmt.Println("\n🎉 All systems ready! Start the API with: go run ./cmd/api")
}
