// Command tokengen prints a session token for a cook, signed with JWT_SECRET.
//
//	tokengen -vendor-id v-123 -vendor-name "Auntie May"
package main

import (
	"flag"
	"fmt"
	"os"

	"homecook-backend/configs"
	"homecook-backend/pkg/auth"

	"github.com/google/uuid"
)

func main() {
	vendorID := flag.String("vendor-id", "", "vendor the cook acts for")
	vendorName := flag.String("vendor-name", "", "display name of the vendor")
	flag.Parse()

	if *vendorID == "" {
		fmt.Fprintln(os.Stderr, "-vendor-id is required")
		os.Exit(2)
	}

	config := configs.LoadConfig()
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours)

	token, err := jwtManager.GenerateToken(uuid.NewString(), auth.RoleCook, *vendorID, *vendorName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
