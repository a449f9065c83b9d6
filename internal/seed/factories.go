package seed

import (
	"github.com/brianvoe/gofakeit/v6"

	"blogly/internal/service"
)

// Factory builds random service inputs. A fixed seed yields the same sequence.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a Factory. A seed of 0 picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

func (f *Factory) User() service.UserInput {
	return service.UserInput{
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		ImageURL:  f.faker.ImageURL(400, 400),
	}
}

// Post returns a post tagged with up to two names picked from tags.
func (f *Factory) Post(tags []string) service.PostInput {
	in := service.PostInput{
		Title:   f.faker.Sentence(f.faker.IntRange(2, 6)),
		Content: f.faker.Paragraph(1, 3, 12, "\n"),
	}
	if len(tags) == 0 {
		return in
	}
	for i := f.faker.IntRange(0, 2); i > 0; i-- {
		in.Tags = append(in.Tags, tags[f.faker.IntRange(0, len(tags)-1)])
	}
	return in
}
