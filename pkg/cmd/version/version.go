package version

import (
	"fmt"

	"github.com/fatih/color"
	resty "github.com/go-resty/resty/v2"
	goversion "github.com/hashicorp/go-version"
)

var Version = ""

var green = color.New(color.FgGreen).SprintfFunc()

var upToDateString = `
Current version: %s

` + green("You're up to date!")

var outOfDateString = `
Current version: %s

` + green("A new version of podssh has been released!") + `

Version: %s

Details: %s

%s
`

type githubReleaseMetadata struct {
	TagName      string `json:"tag_name"`
	IsDraft      bool   `json:"draft"`
	IsPrerelease bool   `json:"prerelease"`
	Name         string `json:"name"`
	Body         string `json:"body"`
}

// BuildVersionString compares the running build against the latest release.
// Dev builds and unparsable tags are reported as up to date.
func BuildVersionString(client *resty.Client, releaseURL string) (string, error) {
	release, err := getLatestGithubReleaseMetadata(client, releaseURL)
	if err != nil {
		return "", err
	}
	if isNewer(release.TagName, Version) {
		return fmt.Sprintf(outOfDateString, Version, release.TagName, release.Name, release.Body), nil
	}
	return fmt.Sprintf(upToDateString, Version), nil
}

func isNewer(latest, current string) bool {
	lv, err := goversion.NewVersion(latest)
	if err != nil {
		return false
	}
	cv, err := goversion.NewVersion(current)
	if err != nil {
		return false
	}
	return lv.GreaterThan(cv)
}

func getLatestGithubReleaseMetadata(client *resty.Client, releaseURL string) (*githubReleaseMetadata, error) {
	var payload githubReleaseMetadata
	res, err := client.R().
		SetHeader("Accept", "application/vnd.github+json").
		SetResult(&payload).
		Get(releaseURL)
	if err != nil {
		return nil, err //nolint:wrapcheck // errors pkg depends on this package
	}
	if res.IsError() {
		return nil, fmt.Errorf("%s %s", releaseURL, res.Status())
	}
	return &payload, nil
}
