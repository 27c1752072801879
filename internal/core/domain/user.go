package domain

import "fmt"

type User struct {
	Name string
	Age  int
}

// NewUser stores name and age verbatim. No validation is applied.
func NewUser(name string, age int) User {
	return User{Name: name, Age: age}
}

func (u User) String() string {
	return describe(u.Name, u.Age)
}

func describe(name string, age int) string {
	return fmt.Sprintf("%s is %d years old", name, age)
}
