package client

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/dotmark/sgrid.go/grid"
)

/*

editor pages

*/

// A templateEditorPage contains the values to fill the editor
// page template.
type templateEditorPage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Board                     templateBoard
	ApplicationFooter         string
}

// templateBoard is the structure expected by the board grid
// section of the editor page template.
type templateBoard [][]templateBoardCell

// A templateBoardCell contains the cell's index, displayed
// value, lock state, and CSS styling classes as expected by the
// board grid section of the editor page template.
type templateBoardCell struct {
	Index                   int
	Value                   template.HTML
	Locked                  bool
	Shade, HBorder, VBorder string
}

// add editor statics to the static list
func init() {
	staticResourcePaths["/editor.js"] = filepath.Join("editor", "editor.js")
	staticResourcePaths["/editor.css"] = filepath.Join("editor", "editor.css")
}

// EditorPage executes the editor page template over the passed
// session info and editor, and returns the editor page content
// as a string.
func EditorPage(sessionID string, puzzleID string, e *grid.Editor) string {
	board, err := editorTemplateBoard(e)
	if err != nil {
		return errorPage(err)
	}

	tep := templateEditorPage{
		SessionID:         sessionID,
		PuzzleID:          puzzleID,
		Title:             fmt.Sprintf("%s: Editor", brandName),
		TopHead:           "Grid Editor",
		IconFile:          iconPath,
		CssFile:           "/editor.css",
		JsFile:            "/editor.js",
		Board:             board,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("editor")
	if err != nil {
		return errorPage(fmt.Errorf("Couldn't load the %q template: %v", "editor", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tep)
	if err != nil {
		return errorPage(err)
	}
	return buf.String()
}

/*

board templates

*/

// editorTemplateBoard renders an editor's board into the
// row/cell structure the editor page template expects.  Boards
// whose size admits no tiling get row-only borders.
func editorTemplateBoard(e *grid.Editor) (templateBoard, error) {
	if e == nil {
		return nil, fmt.Errorf("No editor to render")
	}
	size := e.Size()
	tileX, tileY := templateTileDimensions(size)
	rows := make(templateBoard, size)
	for i := 0; i < size; i++ {
		rows[i] = make([]templateBoardCell, size)
		// is this top, bottom, or middle row of tile
		hborder := "middle"
		if tileY == 0 {
			hborder = "top"
		} else if i%tileY == 0 {
			hborder = "top"
		} else if i%tileY == tileY-1 {
			hborder = "bottom"
		}
		for j := 0; j < size; j++ {
			cell := grid.Cell{Row: i, Col: j}
			value := template.HTML("&nbsp;")
			if val := e.Display(cell); val > 0 {
				value = template.HTML(valueText(val))
			}
			shade := "lighter"
			vborder := "center"
			if tileX > 0 {
				// even tile or odd tile shading
				if (i/tileY+j/tileX)%2 == 0 {
					shade = "darker"
				}
				// is this left, center, or right column of tile
				if j%tileX == 0 {
					vborder = "left"
				} else if j%tileX == tileX-1 {
					vborder = "right"
				}
			}
			rows[i][j] = templateBoardCell{
				Index:   i*size + j + 1,
				Value:   value,
				Locked:  e.Locked(cell),
				Shade:   shade,
				HBorder: hborder,
				VBorder: vborder,
			}
		}
	}
	return rows, nil
}

// valueText - the one-character form of a cell value
func valueText(val int) string {
	if val < 10 {
		return fmt.Sprint(val)
	}
	return fmt.Sprintf("%c", 'A'+val-10)
}

// templateTileDimensions: tile width and height for a board
// size, zeros when the size admits no rectangular tiling.
func templateTileDimensions(size int) (int, int) {
	if root, ok := findIntSquareRoot(size); ok {
		return root, root
	}
	if low, high, ok := findDivisors(size); ok {
		return high, low
	}
	return 0, 0
}

// Find the integer square root of val, if it exists.
func findIntSquareRoot(val int) (int, bool) {
	var i int
	for i = 1; i*i <= val; i++ {
		if i*i == val {
			return i, true
		}
	}
	return i - 1, false
}

// findDivisors: find consecutive ints that multiply to give an
// int, if they exist
func findDivisors(val int) (int, int, bool) {
	var low, high int
	for low, high = 1, 2; low*high <= val; low, high = high, high+1 {
		if low*high == val {
			return low, high, true
		}
	}
	return low - 1, low, false
}

/*

error pages

*/

// A templateErrorPage contains the values to fill the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	IconFile, ReportBugPage string
	ApplicationFooter       string
}

// return error page content
func errorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", brandName),
		TopHead:           "Error Page",
		Message:           e.Error(),
		IconFile:          iconPath,
		ReportBugPage:     reportBugPath,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}

	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tep)
	if err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

/*

home page

*/

// A PuzzleChoice is one catalog puzzle the home page offers.
type PuzzleChoice struct {
	ID   string
	Name string
	Size int
}

// A templateHomePage contains the values to fill the home page
// template.
type templateHomePage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Puzzles                   []PuzzleChoice
	ApplicationFooter         string
}

// add home statics to the static list
func init() {
	staticResourcePaths["/home.js"] = filepath.Join("home", "home.js")
	staticResourcePaths["/home.css"] = filepath.Join("home", "home.css")
}

// HomePage executes the home page template over the passed
// session and catalog info, and returns the home page content as
// a string.  If there is an error, what's returned is the error
// page content as a string.
func HomePage(sessionID string, puzzleID string, puzzles []PuzzleChoice) string {
	thp := templateHomePage{
		SessionID:         sessionID,
		PuzzleID:          puzzleID,
		Title:             fmt.Sprintf("%s: Home", brandName),
		TopHead:           brandName,
		IconFile:          iconPath,
		CssFile:           "/home.css",
		JsFile:            "/home.js",
		Puzzles:           puzzles,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("home")
	if err != nil {
		return errorPage(fmt.Errorf("Couldn't load the %q template: %v", "home", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, thp)
	if err != nil {
		return errorPage(err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter - the application footer that shows at the
// bottom of all pages.
func applicationFooter() string {
	appName := os.Getenv(applicationNameEnvVar)
	appEnv := os.Getenv(applicationEnvEnvVar)
	appVersion := os.Getenv(applicationVersionEnvVar)
	appInstance := os.Getenv(applicationInstanceEnvVar)
	appBuild := os.Getenv(applicationBuildEnvVar)

	if appName == "" {
		appName = brandName
	}

	if appEnv == "" {
		appEnv = "local"
	}

	if appVersion != "" {
		appVersion = " " + appVersion
	}
	if len(appBuild) >= 7 {
		appBuild = appBuild[:7]
	}

	if appInstance != "" {
		appInstance = " (instance " + appInstance + ")"
	}

	switch appEnv {
	case "local":
		return "[" + appName + " local]"
	case "dev":
		return "[" + appName + " CI/CD]"
	case "stg":
		return "[" + appName + appVersion + " <" + appBuild + ">]"
	case "prd":
		return "[" + appName + appVersion + " <" + appBuild + ">" + appInstance + "]"
	}
	return "[" + appName + " <??>]"
}
