package browser

import (
	"sync"
	"testing"

	"github.com/chromedp/cdproto/network"
)

func TestDecideContinuesFaviconBeforeTypeRules(t *testing.T) {
	t.Parallel()

	st := &attemptState{payload: []byte("<html></html>")}
	// favicons commonly arrive typed as images; the .ico rule must win
	if got := decide("https://example.com/favicon.ico", network.ResourceTypeImage, st); got != DecisionContinue {
		t.Fatalf("favicon decision = %s, want continue", got)
	}
	if st.consumed.Load() {
		t.Fatal("favicon decision consumed the payload")
	}
}

func TestDecideAbortsStaticResourceTypes(t *testing.T) {
	t.Parallel()

	aborted := []network.ResourceType{
		network.ResourceTypeImage,
		network.ResourceTypeStylesheet,
		network.ResourceTypeMedia,
		network.ResourceTypeFont,
		network.ResourceTypePing,
		network.ResourceTypeManifest,
	}
	st := &attemptState{}
	for _, rt := range aborted {
		if got := decide("https://example.com/asset", rt, st); got != DecisionAbort {
			t.Errorf("decide(%s) = %s, want abort", rt, got)
		}
	}
}

func TestDecidePassesScriptsAndXHR(t *testing.T) {
	t.Parallel()

	st := &attemptState{payload: []byte("cached")}
	passing := []network.ResourceType{
		network.ResourceTypeScript,
		network.ResourceTypeXHR,
		network.ResourceTypeFetch,
		network.ResourceTypeWebSocket,
		network.ResourceTypeOther,
	}
	for _, rt := range passing {
		if got := decide("https://example.com/api", rt, st); got != DecisionContinue {
			t.Errorf("decide(%s) = %s, want continue", rt, got)
		}
	}
	if st.consumed.Load() {
		t.Fatal("non-document request consumed the payload")
	}
}

func TestDecideFulfillsFirstDocumentOnly(t *testing.T) {
	t.Parallel()

	st := &attemptState{payload: []byte("<html>cached</html>")}

	if got := decide("https://example.com/", network.ResourceTypeDocument, st); got != DecisionFulfill {
		t.Fatalf("first document decision = %s, want fulfill", got)
	}
	// later document requests (iframes, soft navigations) hit the network
	if got := decide("https://example.com/frame", network.ResourceTypeDocument, st); got != DecisionContinue {
		t.Fatalf("second document decision = %s, want continue", got)
	}
}

func TestDecideContinuesDocumentWithoutPayload(t *testing.T) {
	t.Parallel()

	st := &attemptState{}
	if got := decide("https://example.com/", network.ResourceTypeDocument, st); got != DecisionContinue {
		t.Fatalf("document decision without payload = %s, want continue", got)
	}
}

// TestDecideFulfillExactlyOnceUnderRace hammers one attempt state from
// many goroutines; exactly one of them may see fulfill.
func TestDecideFulfillExactlyOnceUnderRace(t *testing.T) {
	t.Parallel()

	st := &attemptState{payload: []byte("cached")}

	const workers = 64
	var wg sync.WaitGroup
	results := make(chan Decision, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- decide("https://example.com/", network.ResourceTypeDocument, st)
		}()
	}
	wg.Wait()
	close(results)

	fulfills := 0
	for d := range results {
		if d == DecisionFulfill {
			fulfills++
		}
	}
	if fulfills != 1 {
		t.Fatalf("got %d fulfill decisions, want exactly 1", fulfills)
	}
}
