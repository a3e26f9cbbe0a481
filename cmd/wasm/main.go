//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gravewriter/gograve/internal/storage"
	"github.com/gravewriter/gograve/internal/store"
	"github.com/gravewriter/gograve/pkg/autosave"
	"github.com/gravewriter/gograve/pkg/export"
	"github.com/gravewriter/gograve/pkg/response"
	"github.com/gravewriter/gograve/pkg/stats"
)

// Version info
const Version = "1.0.0"

// Global state, wired once by initialize.
var docStore *store.Store
var saver *autosave.Controller
var crutch *stats.PhraseCounter

var errNotInitialized = errors.New("engine not initialized")

func main() {
	fmt.Println("[GoGrave] WASM Ready v" + Version)

	js.Global().Set("GoGrave", js.ValueOf(map[string]interface{}{
		"version":    js.FuncOf(getVersion),
		"initialize": js.FuncOf(initialize),
		// Document Store API
		"createDocument":    js.FuncOf(createDocument),
		"updateDocument":    js.FuncOf(updateDocument),
		"deleteDocument":    js.FuncOf(deleteDocument),
		"getDocument":       js.FuncOf(getDocument),
		"listDocuments":     js.FuncOf(listDocuments),
		"setActiveDocument": js.FuncOf(setActiveDocument),
		"getActiveDocument": js.FuncOf(getActiveDocument),
		// Snapshots
		"createSnapshot":  js.FuncOf(createSnapshot),
		"restoreSnapshot": js.FuncOf(restoreSnapshot),
		"deleteSnapshot":  js.FuncOf(deleteSnapshot),
		// Settings
		"getSettings":    js.FuncOf(getSettings),
		"updateSettings": js.FuncOf(updateSettings),
		// Auto-save
		"recordEdit":       js.FuncOf(recordEdit),
		"saveNow":          js.FuncOf(saveNow),
		"saveStatus":       js.FuncOf(saveStatus),
		"blocksNavigation": js.FuncOf(blocksNavigation),
		"indicatorVisible": js.FuncOf(indicatorVisible),
		"onSaveStatus":     js.FuncOf(onSaveStatus),
		// Statistics
		"wordCount":          js.FuncOf(wordCount),
		"characterCount":     js.FuncOf(characterCount),
		"readingTime":        js.FuncOf(readingTime),
		"wordGoalProgress":   js.FuncOf(wordGoalProgress),
		"topWords":           js.FuncOf(topWords),
		"setCrutchPhrases":   js.FuncOf(setCrutchPhrases),
		"countCrutchPhrases": js.FuncOf(countCrutchPhrases),
		"activeWordCount":    js.FuncOf(activeWordCount),
		// Export helpers
		"exportFilename": js.FuncOf(exportFilename),
		"exportText":     js.FuncOf(exportText),
		"exportMarkdown": js.FuncOf(exportMarkdown),
	}))

	// Block forever so the exports stay alive.
	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return response.OK(Version)
}

// initialize binds the engine to window.localStorage and hydrates the
// store. When localStorage is unusable the session falls back to an
// in-memory backend and the save status stays pinned to error.
func initialize(this js.Value, args []js.Value) interface{} {
	var backend storage.Backend
	ls, err := storage.NewLocalStorageBackend()
	if err != nil {
		fmt.Println("[GoGrave] localStorage unavailable, running in memory:", err.Error())
		broken := storage.NewMemoryBackend()
		broken.SetBroken(true)
		backend = broken
	} else {
		backend = ls
	}

	docStore = store.New(storage.NewAdapter(backend, nil), nil)
	saver = autosave.New(docStore)
	crutch, _ = stats.NewPhraseCounter(nil)

	return response.OK(map[string]interface{}{
		"degraded": docStore.Degraded(),
	})
}

// =============================================================================
// Document Store
// =============================================================================

func createDocument(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	id, err := docStore.CreateDocument()
	if err != nil {
		// The document exists in memory; surface the id anyway.
		fmt.Println("[GoGrave] create persist failed:", err.Error())
	}
	return response.OK(id)
}

func updateDocument(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 2 {
		return response.Err(errors.New("updateDocument(id, patchJSON)"))
	}

	var patch store.DocumentPatch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return response.Err(fmt.Errorf("bad patch: %w", err))
	}
	if err := docStore.UpdateDocument(args[0].String(), patch); err != nil {
		return response.Err(err)
	}
	return response.OK(true)
}

func deleteDocument(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 1 {
		return response.Err(errors.New("deleteDocument(id)"))
	}
	if err := docStore.DeleteDocument(args[0].String()); err != nil {
		return response.Err(err)
	}
	return response.OK(true)
}

func getDocument(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 1 {
		return response.Err(errors.New("getDocument(id)"))
	}
	doc, ok := docStore.Document(args[0].String())
	if !ok {
		return response.OK(nil)
	}
	return response.OK(doc)
}

func listDocuments(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	return response.OK(response.SlimAll(docStore.Documents()))
}

func setActiveDocument(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	var id *string
	if len(args) > 0 && !args[0].IsNull() && !args[0].IsUndefined() {
		v := args[0].String()
		id = &v
	}
	if err := docStore.SetActiveDocument(id); err != nil {
		return response.Err(err)
	}
	return response.OK(true)
}

func getActiveDocument(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	doc, ok := docStore.ActiveDocument()
	if !ok {
		return response.OK(nil)
	}
	return response.OK(doc)
}

// =============================================================================
// Snapshots
// =============================================================================

func createSnapshot(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 1 {
		return response.Err(errors.New("createSnapshot(documentId)"))
	}
	id, err := docStore.CreateSnapshot(args[0].String())
	if err != nil {
		return response.Err(err)
	}
	return response.OK(id)
}

func restoreSnapshot(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 2 {
		return response.Err(errors.New("restoreSnapshot(documentId, snapshotId)"))
	}
	if err := docStore.RestoreSnapshot(args[0].String(), args[1].String()); err != nil {
		return response.Err(err)
	}
	return response.OK(true)
}

func deleteSnapshot(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 2 {
		return response.Err(errors.New("deleteSnapshot(documentId, snapshotId)"))
	}
	if err := docStore.DeleteSnapshot(args[0].String(), args[1].String()); err != nil {
		return response.Err(err)
	}
	return response.OK(true)
}

// =============================================================================
// Settings
// =============================================================================

func getSettings(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	return response.OK(docStore.Settings())
}

func updateSettings(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 1 {
		return response.Err(errors.New("updateSettings(patchJSON)"))
	}
	var patch store.SettingsPatch
	if err := json.Unmarshal([]byte(args[0].String()), &patch); err != nil {
		return response.Err(fmt.Errorf("bad patch: %w", err))
	}
	if err := docStore.UpdateSettings(patch); err != nil {
		return response.Err(err)
	}
	return response.OK(docStore.Settings())
}

// =============================================================================
// Auto-save
// =============================================================================

func recordEdit(this js.Value, args []js.Value) interface{} {
	if saver == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 2 {
		return response.Err(errors.New("recordEdit(documentId, content)"))
	}
	saver.RecordEdit(args[0].String(), args[1].String())
	return response.OK(true)
}

func saveNow(this js.Value, args []js.Value) interface{} {
	if saver == nil {
		return response.Err(errNotInitialized)
	}
	saver.SaveNow()
	return response.OK(string(docStore.SaveStatus()))
}

func saveStatus(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	return response.OK(string(docStore.SaveStatus()))
}

func blocksNavigation(this js.Value, args []js.Value) interface{} {
	if saver == nil {
		return response.Err(errNotInitialized)
	}
	return response.OK(saver.BlocksNavigation())
}

func indicatorVisible(this js.Value, args []js.Value) interface{} {
	if saver == nil {
		return response.Err(errNotInitialized)
	}
	return response.OK(saver.IndicatorVisible())
}

// onSaveStatus registers a JS callback fired on every status change, so
// the indicator re-renders in the same tick as the transition.
func onSaveStatus(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return response.Err(errors.New("onSaveStatus(callback)"))
	}
	cb := args[0]
	docStore.OnSaveStatus(func(status store.SaveStatus) {
		cb.Invoke(string(status))
	})
	return response.OK(true)
}

// =============================================================================
// Statistics
// =============================================================================

func wordCount(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Err(errors.New("wordCount(content)"))
	}
	return response.OK(stats.WordCount(args[0].String()))
}

func characterCount(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Err(errors.New("characterCount(content)"))
	}
	return response.OK(stats.CharacterCount(args[0].String()))
}

func readingTime(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Err(errors.New("readingTime(words)"))
	}
	return response.OK(stats.ReadingTime(args[0].Int()))
}

func wordGoalProgress(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return response.Err(errors.New("wordGoalProgress(words, goal)"))
	}
	var goal *int
	if !args[1].IsNull() && !args[1].IsUndefined() {
		v := args[1].Int()
		goal = &v
	}
	return response.OK(stats.WordGoalProgress(args[0].Int(), goal))
}

func topWords(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return response.Err(errors.New("topWords(content, n)"))
	}
	return response.OK(stats.TopWords(args[0].String(), args[1].Int()))
}

func setCrutchPhrases(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Err(errors.New("setCrutchPhrases(phrasesJSON)"))
	}
	var phrases []string
	if err := json.Unmarshal([]byte(args[0].String()), &phrases); err != nil {
		return response.Err(fmt.Errorf("bad phrase list: %w", err))
	}
	pc, err := stats.NewPhraseCounter(phrases)
	if err != nil {
		return response.Err(err)
	}
	crutch = pc
	return response.OK(len(phrases))
}

func countCrutchPhrases(this js.Value, args []js.Value) interface{} {
	if crutch == nil {
		return response.Err(errNotInitialized)
	}
	if len(args) < 1 {
		return response.Err(errors.New("countCrutchPhrases(content)"))
	}
	return response.OK(crutch.Count(args[0].String()))
}

func activeWordCount(this js.Value, args []js.Value) interface{} {
	if docStore == nil {
		return response.Err(errNotInitialized)
	}
	return response.OK(docStore.ActiveWordCount())
}

// =============================================================================
// Export helpers
// =============================================================================

func exportFilename(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Err(errors.New("exportFilename(title)"))
	}
	return response.OK(export.Filename(args[0].String()))
}

func exportText(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return response.Err(errors.New("exportText(title, content)"))
	}
	return response.OK(export.Text(args[0].String(), args[1].String()))
}

func exportMarkdown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return response.Err(errors.New("exportMarkdown(title, content)"))
	}
	return response.OK(export.Markdown(args[0].String(), args[1].String()))
}
