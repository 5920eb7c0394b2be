package main

import (
	"fmt"
	"io/fs"
	"os"

	appfs "github.com/apper-canvas/learnhubdigital/fs"
	dummydb "github.com/apper-canvas/learnhubdigital/storage/database/dummy"
)

// validateCourses loads the fixtures the API would be seeded with and reports what they hold.
func (cli *commandLine) validateCourses(dir string) error {
	var fsys fs.FS = appfs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	fx, err := dummydb.LoadFixtures(fsys)
	if err != nil {
		return err
	}

	var lessons, quizzes int
	for _, crs := range fx.Courses {
		lessons += len(crs.Lessons)
		for _, l := range crs.Lessons {
			if l.HasQuiz() {
				quizzes++
			}
		}
	}
	fmt.Fprintf(cli.out, "ok: %d courses, %d lessons, %d quizzes\n", len(fx.Courses), lessons, quizzes)
	return nil
}
