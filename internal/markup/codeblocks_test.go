package markup

import (
	"strings"
	"testing"
)

func TestCanonicalizeCodeBlocks(t *testing.T) {
	input := `<div class="hcb_wrap"><pre class="prism line-numbers lang-go" data-lang="Go"><code>fmt.Println(&#34;hi&#34;)</code></pre></div>`

	got := CanonicalizeCodeBlocks(input)

	if strings.Contains(got, "hcb_wrap") {
		t.Errorf("vendor wrapper survived: %q", got)
	}
	if !strings.Contains(got, `<pre data-language="go">`) {
		t.Errorf("missing canonical pre with language: %q", got)
	}
	if !strings.Contains(got, `fmt.Println(&#34;hi&#34;)`) {
		t.Errorf("code text was re-escaped or lost: %q", got)
	}
}

func TestCanonicalizeCodeBlocksLanguageFromClass(t *testing.T) {
	input := `<div class="hcb_wrap"><pre class="prism lang-Python"><code>print(1)</code></pre></div>`

	got := CanonicalizeCodeBlocks(input)
	if !strings.Contains(got, `<pre data-language="python">`) {
		t.Errorf("expected language from lang- class, got %q", got)
	}
}

func TestCanonicalizeCodeBlocksNoLanguage(t *testing.T) {
	input := `<div class="hcb_wrap"><pre class="prism"><code>x = 1</code></pre></div>`

	got := CanonicalizeCodeBlocks(input)
	if strings.Contains(got, "data-language") {
		t.Errorf("unexpected language attribute: %q", got)
	}
	if !strings.Contains(got, "<pre><code>x = 1</code></pre>") {
		t.Errorf("expected bare pre/code, got %q", got)
	}
}

func TestCanonicalizeCodeBlocksWrapperWithoutPre(t *testing.T) {
	input := `<div class="hcb_wrap"><p>not code</p></div>`

	got := CanonicalizeCodeBlocks(input)
	if got != "<p>not code</p>" {
		t.Errorf("expected wrapper unwrapped, got %q", got)
	}
}

func TestCanonicalizeCodeBlocksLeavesPlainPre(t *testing.T) {
	input := "<pre><code>untouched</code></pre>"
	if got := CanonicalizeCodeBlocks(input); got != input {
		t.Errorf("plain pre changed: %q", got)
	}
}
