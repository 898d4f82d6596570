package client

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

/*

template lookup

*/

// testing setup: change default directory since we run from this
// module's directory which is a child of the top.  This applies
// to all the tests in this module.
func init() {
	defaultStaticDirectory = filepath.Join("..", "static")
	defaultTemplateDirectory = filepath.Join(defaultStaticDirectory, "tmpl")
}

func TestBasicLookup(t *testing.T) {
	defer func() {
		loadedTemplates = make(map[string]*template.Template)
	}()

	tmpl1, err := loadPageTemplate("error")
	if err != nil {
		t.Fatalf("Failed to load error template: %v", err)
	}
	tmpl2, err := loadPageTemplate("error")
	if err != nil || tmpl2 != tmpl1 {
		t.Errorf("Second load of error template didn't use cache! (%v, %v)", tmpl2, tmpl1)
	}
	tmpl1, err = loadPageTemplate("editor")
	if err != nil {
		t.Fatalf("Failed to load editor template: %v", err)
	}
	tmpl2, err = loadPageTemplate("editor")
	if err != nil || tmpl2 != tmpl1 {
		t.Errorf("Second load of editor template didn't use cache! (%v, %v)", tmpl2, tmpl1)
	}
}

func TestEnvVarOverride(t *testing.T) {
	defer func() {
		loadedTemplates = make(map[string]*template.Template)
		os.Unsetenv(defaultTemplateDirectoryEnvVar)
	}()

	// first check that we fail with the wrong directory
	os.Setenv(defaultTemplateDirectoryEnvVar, filepath.Join("nosuchdir"))
	_, err := loadPageTemplate("error")
	if err == nil {
		t.Fatalf("Load with OS env directory %v", os.Getenv(defaultTemplateDirectoryEnvVar))
	}
	// now reset to the tests directory and try a test load
	os.Setenv(defaultTemplateDirectoryEnvVar, "tests")
	_, err = loadPageTemplate("test")
	if err != nil {
		t.Fatalf("Failed to load test template: %v", err)
	}
	// now unset the environment to use the default
	os.Unsetenv(defaultTemplateDirectoryEnvVar)
	_, err = loadPageTemplate("error")
	if err != nil {
		t.Fatalf("Failed to load error template: %v", err)
	}
}

/*

resource verification and static serving

*/

func TestVerifyResources(t *testing.T) {
	if err := VerifyResources(); err != nil {
		t.Errorf("Resources didn't verify: %v", err)
	}
	defer os.Unsetenv(defaultStaticDirectoryEnvVar)
	os.Setenv(defaultStaticDirectoryEnvVar, "nosuchdir")
	if err := VerifyResources(); err == nil {
		t.Errorf("Resources verified against a missing directory")
	}
}

func TestStaticHandler(t *testing.T) {
	r := httptest.NewRequest("GET", "/robots.txt", nil)
	w := httptest.NewRecorder()
	if !StaticHandler(w, r) {
		t.Fatalf("robots.txt not served")
	}
	if w.Code != http.StatusOK {
		t.Errorf("robots.txt status %d", w.Code)
	}
	r = httptest.NewRequest("GET", "/not-a-static-resource", nil)
	if StaticHandler(httptest.NewRecorder(), r) {
		t.Errorf("Unknown path claimed by the static handler")
	}
}
