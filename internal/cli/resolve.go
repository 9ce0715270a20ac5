package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/repository"
)

// resolveCourse accepts a numeric course id or a short name.
func resolveCourse(ctx context.Context, app *App, input string) (*domain.Course, error) {
	if input == "" {
		return nil, fmt.Errorf("course is required")
	}
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		c, err := app.Courses.GetByID(ctx, id)
		if err == nil || !errors.Is(err, repository.ErrNotFound) {
			return c, err
		}
	}

	c, err := app.Courses.GetByShortName(ctx, input)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	courses, err := app.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if strings.EqualFold(c.ShortName, input) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course not found: %q", input)
}

func parseID(kind, input string) (int64, error) {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, input)
	}
	return id, nil
}
