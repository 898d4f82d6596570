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

package storage

import (
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"

	"github.com/dotmark/sgrid.go/catalog"
	"github.com/dotmark/sgrid.go/grid"
)

// A Session tracks a user's work on their current puzzle.
// Behind the scenes, we persist every board state the user has
// passed through as a list of payloads, so a reconnecting client
// gets its editor back with the undo trail intact.
type Session struct {
	// these elements are persisted as part of the session hash
	SID     string // session ID
	PID     string // ID of the puzzle being edited
	Size    int    // side length of the board
	Step    int    // current step
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved

	// the editor is persisted in the steps, as payloads
	Editor *grid.Editor `redis:"-"`
}

// NewSessionID mints an ID for a fresh session.
func NewSessionID() string {
	return uuid.NewString()
}

// LoadSession finds the saved session for an ID, or creates one
// on the default puzzle if there is no saved session.
func LoadSession(sid string) *Session {
	session := &Session{SID: sid}
	if session.Lookup() {
		session.LoadStep()
		return session
	}
	session.Created = time.Now().Format(time.RFC3339)
	session.StartPuzzle(catalog.DefaultPuzzleID)
	return session
}

/*

session manipulation

*/

// StartPuzzle: set the puzzle ID for the current session and
// clear any existing editing steps.  If the given puzzle ID is
// empty, try using the session's current puzzle ID.  If the
// given puzzle ID is unknown, use the default puzzle ID.
func (session *Session) StartPuzzle(pid string) {
	// change to the given pid, making sure it's valid
	if pid == "" {
		pid = session.PID
	}
	entry := loadPuzzleEntry(pid)
	if entry == nil {
		pid = catalog.DefaultPuzzleID
		if entry = loadPuzzleEntry(pid); entry == nil {
			log.Printf("No catalog entry for default puzzle %q", pid)
			panic(grid.Error{
				Scope:     grid.ArgumentScope,
				Structure: grid.AttributeValueStructure,
				Condition: grid.InvalidArgumentCondition,
				Attribute: grid.NamedAttribute,
				Values:    grid.ErrorData{pid},
			})
		}
	}
	session.PID = pid
	session.Size = entry.size()
	session.Editor = entry.makeEditor()

	// update the cache
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step = 1
	payload := session.Editor.Export()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("DEL", session.stepsKey())
		_, err = tx.Do("RPUSH", session.stepsKey(), payload)
		if err != nil {
			log.Printf("Redis error on save of session %q after reset: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Reset session %v to start editing puzzle %q.", session.SID, session.PID)
}

// AddStep: append the editor's current board as a new step.
func (session *Session) AddStep() {
	// update the cache
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step++
	payload := session.Editor.Export()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		_, err = tx.Do("RPUSH", session.stepsKey(), payload)
		if err != nil {
			log.Printf("Redis error on save of %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Added session %v:%v step %d.", session.SID, session.PID, session.Step)
}

// RemoveStep: remove the last step and restore the prior step's
// board to the editor.
func (session *Session) RemoveStep() {
	if session.Step <= 1 {
		// nothing to do
		return
	}

	// load the prior payload from the cache
	var payload []byte
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step--
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("LTRIM", session.stepsKey(), 0, -2)
		payload, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on remove to %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	session.importStep(payload)
	log.Printf("Reverted session %v:%v to step %d.", session.SID, session.PID, session.Step)
}

// RemoveAllSteps: drop every step but the first and restore the
// starting board to the editor.
func (session *Session) RemoveAllSteps() {
	if session.Step <= 1 {
		// nothing to do
		return
	}

	var payload []byte
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step = 1
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("LTRIM", session.stepsKey(), 0, 0)
		payload, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on reset of %s:%q: %v", session.SID, session.PID, err)
		}
		return
	}
	rdExecute(body)
	session.importStep(payload)
	log.Printf("Reset session %v:%v to step 1.", session.SID, session.PID)
}

// Lookup: find the saved hash for the session's ID.  Returns
// whether there was one.
func (session *Session) Lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				log.Printf("Redis error on parse of saved session %q: %v", session.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Redis error on GET of session %q: %v", session.SID, err)
			return err
		}
		return nil
	}
	rdExecute(body)
	return
}

// LoadStep: rebuild the editor from the last saved step.
func (session *Session) LoadStep() {
	var payload []byte
	body := func(tx redis.Conn) (err error) {
		payload, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on load of %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	session.importStep(payload)
}

// importStep - replace the editor's board with a saved payload
func (session *Session) importStep(payload []byte) {
	size, err := grid.PayloadSize(string(payload))
	if err != nil {
		log.Printf("Saved step of %s:%q step %d doesn't parse: %v",
			session.SID, session.PID, session.Step, err)
		panic(err)
	}
	if session.Editor == nil || session.Editor.Size() != size {
		e, err := grid.NewEditor(size)
		if err != nil {
			panic(err)
		}
		session.Editor = e
	}
	if err := session.Editor.Import(string(payload)); err != nil {
		log.Printf("Failed to restore %s:%q step %d: %v",
			session.SID, session.PID, session.Step, err)
		panic(err)
	}
}

/*

session key generation

*/

// key - returns the session key
func (session *Session) key() string {
	return rdEnv + ":SID:" + session.SID
}

// stepsKey - returns the key for the session's step array
func (session *Session) stepsKey() string {
	return session.key() + ":Steps"
}
