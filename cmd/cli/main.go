package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := addUserCmd.String("username", "", "Username for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	email := addUserCmd.String("email", "", "Email for the new user")
	role := addUserCmd.String("role", "member", "Role: member, staff or admin")
	partner := addUserCmd.String("partner", "", "Food partner the staff user belongs to")
	fullName := addUserCmd.String("full-name", "", "Full name")
	srCode := addUserCmd.String("sr-code", "", "Student registration code")

	addItemCmd := flag.NewFlagSet("add-item", flag.ExitOnError)
	itemName := addItemCmd.String("name", "", "Menu item name")
	itemDesc := addItemCmd.String("description", "", "Menu item description")
	itemPrice := addItemCmd.String("price", "", "Price")
	itemCategory := addItemCmd.String("category", "", "Category")
	itemPartner := addItemCmd.String("partner", "", "Food partner selling the item")
	itemImage := addItemCmd.String("image-url", "", "Image URL")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-user' or 'add-item' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" || *email == "" {
			fmt.Println("username, password and email are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		if *role == "staff" && *partner == "" {
			fmt.Println("staff users need a -partner")
			os.Exit(1)
		}
		createUser(*username, *password, *email, *role, *partner, *fullName, *srCode)
	case "add-item":
		addItemCmd.Parse(os.Args[2:])
		if *itemName == "" || *itemPrice == "" || *itemPartner == "" {
			fmt.Println("name, price and partner are required")
			addItemCmd.PrintDefaults()
			os.Exit(1)
		}
		price, err := strconv.ParseFloat(*itemPrice, 64)
		if err != nil || price <= 0 {
			fmt.Println("price must be a positive number")
			os.Exit(1)
		}
		createItem(*itemName, *itemDesc, *itemCategory, *itemPartner, *itemImage, price)
	default:
		fmt.Println("expected 'add-user' or 'add-item' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./clicktoeat.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func createUser(username, password, email, role, partner, fullName, srCode string) {
	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    string(hashedPassword),
		Role:        role,
		FoodPartner: partner,
		FullName:    fullName,
		SRCode:      srCode,
	}
	if err := db.CreateUser(user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' (%s) created successfully.\n", username, role)
}

func createItem(name, desc, category, partner, imageURL string, price float64) {
	db := openStore()

	item := &models.MenuItem{
		Name:        name,
		Description: desc,
		Price:       price,
		Category:    category,
		FoodPartner: partner,
		ImageURL:    imageURL,
		Available:   true,
	}
	if err := db.CreateMenuItem(item); err != nil {
		log.Fatalf("Failed to create menu item: %v", err)
	}

	fmt.Printf("Menu item '%s' created for partner '%s'.\n", name, partner)
}
