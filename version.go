package ballot

// version of the ballot application, bumped on every release.
const version = "v0.1.0"

// GitCommit is set at build time:
//
//   go build -ldflags "-X github.com/resppiano/ballot.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the release followed by the commit it was built from,
// when known.
func Version() string {
	if GitCommit == "" {
		return version
	}
	return version + " " + GitCommit
}
