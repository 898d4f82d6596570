// sgrid.go - a web-based puzzle-grid editor and annotation tool.
// Copyright (C) 2024-2025 the sgrid authors.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

// The sgrid web server: one persistent editor per browser
// session, a JSON API for every editing operation, and
// server-rendered home and editor pages.
package main

import (
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/pflag"

	"github.com/dotmark/sgrid.go/client"
	"github.com/dotmark/sgrid.go/storage"
)

const cookieName = "sgridID"
const cookiePath = "/"

/*

sessions

*/

var (
	sessions     = make(map[string]*storage.Session)
	sessionMutex sync.RWMutex
	opMutex      sync.Mutex // one editing operation at a time
)

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	if sc, e := r.Cookie(cookieName); e == nil && sc.Value != "" {
		return sc.Value
	}
	sid := storage.NewSessionID()
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// sessionSelect: find or load the session for the current
// connection.  Loading can happen concurrently from simultaneous
// goroutines, so it has to be interlocked.
func sessionSelect(w http.ResponseWriter, r *http.Request) *storage.Session {
	sessionID := getCookie(w, r)
	sessionMutex.RLock()
	session, ok := sessions[sessionID]
	sessionMutex.RUnlock()
	if ok && session != nil {
		return session
	}
	session = storage.LoadSession(sessionID)
	sessionMutex.Lock()
	sessions[sessionID] = session
	sessionMutex.Unlock()
	return session
}

/*

request handlers

*/

// apiHandler dispatches one API request to the session's editor.
// Requests that change the board get the new state appended to
// the session's step trail.
func apiHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	opMutex.Lock()
	defer opMutex.Unlock()

	e := session.Editor
	before := e.Export()
	var err error
	switch strings.TrimPrefix(r.URL.Path, "/api/") {
	case "state":
		err = e.StateHandler(w, r)
	case "export":
		err = e.ExportHandler(w, r)
	case "gesture":
		err = e.GestureHandler(w, r)
	case "key":
		err = e.KeyHandler(w, r)
	case "digit":
		err = e.DigitHandler(w, r)
	case "note":
		err = e.NoteHandler(w, r)
	case "color":
		err = e.ColorHandler(w, r)
	case "import":
		err = e.ImportHandler(w, r)
	case "undo":
		err = e.UndoHandler(w, r)
	case "redo":
		err = e.RedoHandler(w, r)
	case "reset":
		err = e.ResetHandler(w, r)
	default:
		http.NotFound(w, r)
		log.Printf("No such API endpoint: %q", r.URL.Path)
		return
	}
	if err != nil {
		log.Printf("API %s error: %v", r.URL.Path, err)
		return
	}
	if after := e.Export(); after != before {
		session.AddStep()
	}
}

// editorHandler serves the editor page, switching puzzles first
// when the request names one.
func editorHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	opMutex.Lock()
	if pid := r.URL.Query().Get("puzzle"); pid != "" && pid != session.PID {
		session.StartPuzzle(pid)
	}
	body := client.EditorPage(session.SID, session.PID, session.Editor)
	opMutex.Unlock()
	sendPage(body, w)
}

// homeHandler serves the puzzle-selection page, smallest boards
// first.
func homeHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	infos := storage.ListPuzzles()
	sort.Sort(storage.BySize(infos))
	puzzles := make([]client.PuzzleChoice, len(infos))
	for i, info := range infos {
		puzzles[i] = client.PuzzleChoice{
			ID:   info.PuzzleId,
			Name: info.Name,
			Size: info.SideLength,
		}
	}
	sendPage(client.HomePage(session.SID, session.PID, puzzles), w)
}

// rootHandler routes every request: static resources first, then
// the session-scoped pages and API.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	if client.StaticHandler(w, r) {
		return
	}
	log.Printf("Handling %s %s...", r.Method, r.URL.Path)
	session := sessionSelect(w, r)
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		apiHandler(session, w, r)
	case strings.HasPrefix(r.URL.Path, "/editor"):
		editorHandler(session, w, r)
	case r.URL.Path == "/" || strings.HasPrefix(r.URL.Path, "/home"):
		homeHandler(session, w, r)
	default:
		http.Redirect(w, r, "/home", http.StatusFound)
	}
}

func sendPage(body string, w http.ResponseWriter) {
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

/*

startup

*/

func main() {
	port := pflag.String("port", "", "listen address (overrides $PORT)")
	pflag.Parse()

	if err := client.VerifyResources(); err != nil {
		log.Fatalf("Can't find client resources: %v", err)
	}
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Can't connect to storage: %v", err)
	}
	defer storage.Close()
	log.Printf("Connected to cache at %q, database at %q", cacheId, databaseId)

	http.HandleFunc("/", rootHandler)

	// environment port sensing
	addr := *port
	if addr == "" {
		addr = os.Getenv("PORT")
	}
	if addr == "" {
		// running locally in dev mode
		addr = "localhost:8080"
	} else if !strings.Contains(addr, ":") {
		// running as a true server
		addr = ":" + addr
	}

	log.Printf("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("Listener failure: ", err)
	}
}
