package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the project root before any test runs, so relative paths such as
	// logs/ and .env resolve the same way they do for the server binary.
	//
	//   in some_test.go,
	//   import (
	//     _ "github.com/kalaiprof897-eng/management/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
