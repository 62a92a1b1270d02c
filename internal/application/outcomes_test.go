package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/recheckhub/internal/application"
)

// ciReport is a realistic CI comment body: prose header, job lines, two
// non-voting jobs (one of them failed).
const ciReport = `Patch Set 4: Doesn't seem to work

Build failed.  For information on how to proceed, see https://wiki.openstack.org/wiki/GerritJenkinsGit#Test_Failures

- gate-swift-pep8 http://logs.openstack.org/68/89568/4/check/gate-swift-pep8/450dd07 : SUCCESS in 1m 35s
- gate-swift-docs http://docs-draft.openstack.org/68/89568/4/check/gate-swift-docs/49cfa85/doc/build/html/ : SUCCESS in 2m 26s
- gate-swift-python27 http://logs.openstack.org/68/89568/4/check/gate-swift-python27/17404b3 : SUCCESS in 2m 40s
- check-tempest-dsvm-full http://logs.openstack.org/68/89568/4/check/check-tempest-dsvm-full/93b669f : SUCCESS in 58m 15s
- check-tempest-dsvm-neutron-heat-slow http://logs.openstack.org/68/89568/4/check/check-tempest-dsvm-neutron-heat-slow/86b349d : SUCCESS in 21m 48s (non-voting)
- check-grenade-dsvm-neutron http://logs.openstack.org/68/89568/4/check/check-grenade-dsvm-neutron/6bf8780 : FAILURE in 26m 44s (non-voting)
- check-swift-dsvm-functional http://logs.openstack.org/68/89568/4/check/check-swift-dsvm-functional/bdc0787 : FAILURE in 13m 53s
`

func TestParseJobOutcomes_RealisticReport(t *testing.T) {
	outcomes := application.ParseJobOutcomes(ciReport)

	assert.Equal(t, map[string]bool{
		"gate-swift-pep8":         true,
		"gate-swift-docs":         true,
		"gate-swift-python27":     true,
		"check-tempest-dsvm-full": true,
	}, outcomes.Successes)

	assert.Equal(t, map[string]bool{
		"check-swift-dsvm-functional": true,
	}, outcomes.Failures)
}

func TestParseJobOutcomes_NonVotingNeverAppears(t *testing.T) {
	outcomes := application.ParseJobOutcomes(ciReport)

	for _, job := range []string{"check-tempest-dsvm-neutron-heat-slow", "check-grenade-dsvm-neutron"} {
		assert.NotContains(t, outcomes.Successes, job)
		assert.NotContains(t, outcomes.Failures, job)
	}
}

func TestParseJobOutcomes_NonSuccessStatuses(t *testing.T) {
	// Any status token other than the exact success marker is a failure.
	body := `- job-a http://logs.example.org/a : FAILURE in 5m 00s
- job-b http://logs.example.org/b : ABORTED
- job-c http://logs.example.org/c : TIMED_OUT in 2h 00m
- job-d http://logs.example.org/d : success
`

	outcomes := application.ParseJobOutcomes(body)

	assert.Empty(t, outcomes.Successes)
	assert.Equal(t, map[string]bool{
		"job-a": true,
		"job-b": true,
		"job-c": true,
		"job-d": true, // Lowercase token is not the success marker.
	}, outcomes.Failures)
}

func TestParseJobOutcomes_NoUsableSignal(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		outcomes := application.ParseJobOutcomes("")
		assert.True(t, outcomes.Empty())
	})

	t.Run("prose only", func(t *testing.T) {
		outcomes := application.ParseJobOutcomes("Patch Set 2: Code-Review+1\n\nLooks good to me.\n")
		assert.True(t, outcomes.Empty())
	})

	t.Run("job-like line without URL", func(t *testing.T) {
		outcomes := application.ParseJobOutcomes("- gate-swift-pep8 : SUCCESS\n")
		assert.True(t, outcomes.Empty())
	})
}

func TestParseJobOutcomes_HTTPSLogURLs(t *testing.T) {
	outcomes := application.ParseJobOutcomes("- job-a https://logs.example.org/a : SUCCESS in 1m 02s\n")

	assert.Equal(t, map[string]bool{"job-a": true}, outcomes.Successes)
	assert.Empty(t, outcomes.Failures)
}
