package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/resources"

	"github.com/blang/semver"
	"github.com/google/go-github/github"
	log "github.com/sirupsen/logrus"
)

//Strings used for informing the user of a new version.
var informFmtStr = "\nTheres a new %s version of socintel %s available at:\nhttps://github.com/socintel/socintel/releases\n"
var versions = []string{"Major", "Minor", "Patch"}

// updateCheck performs a check for the new version of socintel against
// the git repository and returns a string indicating the new version if
// available
func updateCheck(configFile string) string {
	res := resources.InitResources(configFile)
	delta := res.Config.S.UserConfig.UpdateCheckFrequency

	if delta <= 0 {
		return ""
	}

	//Check Logs for Versioning
	timestamp, newVersion := res.MetaDB.LastCheck()

	days := time.Since(timestamp).Hours() / 24

	if days > float64(delta) {
		var err error
		newVersion, err = getRemoteVersion()
		if err != nil {
			return ""
		}

		//Log checked version.
		res.Log.WithFields(log.Fields{
			"Message":         "Checking versions...",
			"LastUpdateCheck": time.Now(),
			"NewestVersion":   fmt.Sprint(newVersion),
		}).Info("Checking for new version")
	}

	configVersion, err := semver.ParseTolerant(config.Version)
	if err != nil {
		return ""
	}

	if newVersion.GT(configVersion) {
		return informUser(configVersion, newVersion)
	}

	return ""
}

// Returns the first index where v1 is greater than v2
func versionDiffIndex(v1 semver.Version, v2 semver.Version) int {
	if v1.Major > v2.Major {
		return 0
	}
	if v1.Minor > v2.Minor {
		return 1
	}
	return 2
}

func getRemoteVersion() (semver.Version, error) {
	client := github.NewClient(nil)
	refs, _, err := client.Git.GetRefs(context.Background(), "socintel", "socintel", "refs/tags/v")

	if err == nil {
		s := strings.TrimPrefix(*refs[len(refs)-1].Ref, "refs/tags/")
		return semver.ParseTolerant(s)
	}
	return semver.Version{}, err
}

// Assembles a notice for the user informing them of an upgrade.
// The return value is printed regardless so, "" is returned on errror.
func informUser(local semver.Version, remote semver.Version) string {
	return fmt.Sprintf(informFmtStr,
		versions[versionDiffIndex(remote, local)],
		fmt.Sprint(remote))
}
