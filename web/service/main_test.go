package service

import (
	"fmt"
	"os"
	"testing"

	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/database/model"
)

func TestMain(m *testing.M) {
	if err := database.InitTestDB(); err != nil {
		fmt.Println("init test db failed:", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

var userSeq int

// newUser registers a fresh account with a unique username.
func newUser(t *testing.T) *model.User {
	t.Helper()
	userSeq++
	username := fmt.Sprintf("user%d", userSeq)

	authService := AuthService{}
	user, err := authService.Register(username, username+"@example.com", "secret123")
	if err != nil {
		t.Fatal("register failed:", err)
	}
	return user
}
