package dto

type AuthorRefInput struct {
	ID     string `json:"_id"`
	Name   string `json:"name"   validate:"required"`
	Email  string `json:"email"  validate:"omitempty,email"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
}

type BlogPostInput struct {
	Author   *AuthorRefInput `json:"author"   validate:"required"`
	Category string          `json:"category" validate:"required"`
	Title    string          `json:"title"    validate:"required"`
	Content  string          `json:"content"  validate:"required"`
	Cover    string          `json:"cover"    validate:"omitempty,url"`
}

type BlogPostPatch struct {
	Author   Field[AuthorRefInput] `json:"author"`
	Category Field[string]         `json:"category"`
	Title    Field[string]         `json:"title"`
	Content  Field[string]         `json:"content"`
	Cover    Field[string]         `json:"cover"`
}

func (p BlogPostPatch) Rules() []FieldRule {
	return []FieldRule{
		{Name: "category", Value: p.Category, Tag: "required"},
		{Name: "title", Value: p.Title, Tag: "required"},
		{Name: "content", Value: p.Content, Tag: "required"},
		{Name: "cover", Value: p.Cover, Tag: "omitempty,url", Nullable: true},
	}
}

func (p BlogPostPatch) Nested() []NestedRule {
	return []NestedRule{
		{Name: "author", Set: p.Author.Set, Null: p.Author.Null, Value: p.Author.Value},
	}
}
