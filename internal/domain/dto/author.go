package dto

type AuthorInput struct {
	Name      string `json:"name"      validate:"required"`
	Surname   string `json:"surname"   validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Avatar    string `json:"avatar"    validate:"omitempty,url"`
}

type AuthorPatch struct {
	Name      Field[string] `json:"name"`
	Surname   Field[string] `json:"surname"`
	Email     Field[string] `json:"email"`
	BirthDate Field[string] `json:"birthDate"`
	Avatar    Field[string] `json:"avatar"`
}

func (p AuthorPatch) Rules() []FieldRule {
	return []FieldRule{
		{Name: "name", Value: p.Name, Tag: "required"},
		{Name: "surname", Value: p.Surname, Tag: "required"},
		{Name: "email", Value: p.Email, Tag: "required,email"},
		{Name: "birthDate", Value: p.BirthDate, Tag: "required,datetime=2006-01-02"},
		{Name: "avatar", Value: p.Avatar, Tag: "omitempty,url", Nullable: true},
	}
}
