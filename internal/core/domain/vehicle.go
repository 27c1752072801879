package domain

// Vehicle shares the User shape; Age may hold a model year.
type Vehicle struct {
	Name string
	Age  int
}

func NewVehicle(name string, age int) Vehicle {
	return Vehicle{Name: name, Age: age}
}

func (v Vehicle) String() string {
	return describe(v.Name, v.Age)
}
