package seeder

// Defaults are applied on every server start.
func Defaults() []Seeder {
	return []Seeder{
		CategoriesSeeder{},
	}
}

// Demo adds sample users and signals on top of Defaults.
func Demo(password string) []Seeder {
	return append(Defaults(), DemoSeeder{Password: password})
}
