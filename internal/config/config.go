// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// defaultQuery selects the open reviews whose latest CI run failed and that
// have not been frozen by their owner.
const defaultQuery = "status:open AND " +
	"(project:openstack/swift OR project:openstack/swift-bench OR project:openstack/python-swiftclient) AND " +
	"(label:Verified=-1 OR label:Verified=-2) AND NOT label:WorkFlow=-1"

// Config holds the application configuration loaded from environment
// variables. Run-mode switches (verbose, post, debug selector, extra flaky
// jobs, interval, history) are command-line flags, not configuration.
type Config struct {
	GerritServer   string
	GerritPort     int
	GerritUser     string
	SSHKeyPath     string
	KnownHostsPath string
	Query          string
	DBPath         string // Empty disables the decision audit log.

	CIUser         string
	ClassifierUser string
	ProposalBot    string

	MinChangeNumber int64
	MinCommentAge   time.Duration
}

// Load reads configuration from environment variables and returns a
// validated Config. RECHECKHUB_GERRIT_USER is required; everything else has
// a default. SSH key and known_hosts default to the invoking user's
// ~/.ssh/id_rsa and ~/.ssh/known_hosts.
func Load() (*Config, error) {
	user := os.Getenv("RECHECKHUB_GERRIT_USER")
	if user == "" {
		return nil, fmt.Errorf("RECHECKHUB_GERRIT_USER is required")
	}

	server := "review.openstack.org"
	if v, ok := os.LookupEnv("RECHECKHUB_GERRIT_SERVER"); ok {
		server = v
	}

	port := 29418
	if v, ok := os.LookupEnv("RECHECKHUB_GERRIT_PORT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RECHECKHUB_GERRIT_PORT has invalid value %q: %w", v, err)
		}
		port = parsed
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	sshKey := filepath.Join(home, ".ssh", "id_rsa")
	if v, ok := os.LookupEnv("RECHECKHUB_SSH_KEY"); ok {
		sshKey = v
	}

	knownHosts := filepath.Join(home, ".ssh", "known_hosts")
	if v, ok := os.LookupEnv("RECHECKHUB_KNOWN_HOSTS"); ok {
		knownHosts = v
	}

	query := defaultQuery
	if v, ok := os.LookupEnv("RECHECKHUB_QUERY"); ok {
		query = v
	}

	dbPath := "recheckhub.db"
	if v, ok := os.LookupEnv("RECHECKHUB_DB_PATH"); ok {
		dbPath = v
	}

	ciUser := "jenkins"
	if v, ok := os.LookupEnv("RECHECKHUB_CI_USER"); ok {
		ciUser = v
	}

	classifierUser := "elasticrecheck"
	if v, ok := os.LookupEnv("RECHECKHUB_CLASSIFIER_USER"); ok {
		classifierUser = v
	}

	proposalBot := "proposal-bot"
	if v, ok := os.LookupEnv("RECHECKHUB_PROPOSAL_BOT"); ok {
		proposalBot = v
	}

	var minChange int64 = 80000
	if v, ok := os.LookupEnv("RECHECKHUB_MIN_CHANGE"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RECHECKHUB_MIN_CHANGE has invalid value %q: %w", v, err)
		}
		minChange = parsed
	}

	minCommentAge := 10 * time.Minute
	if v, ok := os.LookupEnv("RECHECKHUB_MIN_COMMENT_AGE"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("RECHECKHUB_MIN_COMMENT_AGE has invalid duration %q: %w", v, err)
		}
		minCommentAge = parsed
	}

	return &Config{
		GerritServer:    server,
		GerritPort:      port,
		GerritUser:      user,
		SSHKeyPath:      sshKey,
		KnownHostsPath:  knownHosts,
		Query:           query,
		DBPath:          dbPath,
		CIUser:          ciUser,
		ClassifierUser:  classifierUser,
		ProposalBot:     proposalBot,
		MinChangeNumber: minChange,
		MinCommentAge:   minCommentAge,
	}, nil
}
