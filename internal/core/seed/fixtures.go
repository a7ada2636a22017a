package seed

// EmployeeFixture は投入する社員と、その所属先 (名前で指定) です。
type EmployeeFixture struct {
	Name       string
	Email      string
	Department string
	Role       string
}

// Fixtures は初期データ一式です。
type Fixtures struct {
	Departments []string
	Roles       []string
	Employees   []EmployeeFixture
}

// DefaultFixtures はデモ用の初期データを返します。
func DefaultFixtures() Fixtures {
	return Fixtures{
		Departments: []string{"Engineering", "Marketing"},
		Roles:       []string{"Software Engineer", "Marketing Specialist", "Product Manager"},
		Employees: []EmployeeFixture{
			{Name: "Rahul Sharma", Email: "rahul.sharma@example.com", Department: "Engineering", Role: "Software Engineer"},
			{Name: "Priya Singh", Email: "priya.singh@example.com", Department: "Marketing", Role: "Marketing Specialist"},
			{Name: "Ankit Verma", Email: "ankit.verma@example.com", Department: "Engineering", Role: "Product Manager"},
		},
	}
}
