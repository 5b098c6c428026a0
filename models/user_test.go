package models

import "testing"

func Test_UserCheckPassword(t *testing.T) {
	testInit(t)
	user, err := UserCreate("admin", "admin@example.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if !user.CheckPassword("secret123") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("secret124") {
		t.Error("wrong password accepted")
	}
	// Same password hashes differently for each user
	other, err := UserCreate("second", "second@example.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if user.Password == other.Password {
		t.Error("salted hashes must differ between users")
	}
}
