package v1_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	charskema "github.com/reoring/charskema"
	v1 "github.com/reoring/charskema/schema/v1"
)

func issueAt(t *testing.T, err error, path string) charskema.Issue {
	t.Helper()
	iss, ok := charskema.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	for _, it := range iss {
		if it.Path == path {
			return it
		}
	}
	t.Fatalf("no issue at %s in %v", path, iss)
	return charskema.Issue{}
}

func minimalCharacter() map[string]any {
	return map[string]any{
		"specVersion": 1,
		"id":          "c-1",
		"name":        "Alice",
		"description": "A curious traveller.",
		"prompt": map[string]any{
			"description": "You are Alice.",
			"lorebook": map[string]any{
				"config": map[string]any{"tokenLimit": 512},
			},
		},
	}
}

func TestMeta_EmptyInputDefaultsLicense(t *testing.T) {
	got, err := v1.MetaSchema.Parse(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"license": "ARR"}) {
		t.Fatalf("got %#v", got)
	}
}

func TestReplaceHook_EmptyInputYieldsFourEmptyLists(t *testing.T) {
	got, err := v1.ReplaceHookSchema.Parse(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"display": []any{}, "input": []any{}, "output": []any{}, "request": []any{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestAssetsSetting_UniqueNames(t *testing.T) {
	asset := func(name, url string) map[string]any {
		return map[string]any{"mimeType": "image/png", "name": name, "data": url}
	}
	dup := map[string]any{"assets": []any{asset("dup.png", "http://x/a.png"), asset("dup.png", "http://x/b.png")}}
	err := v1.AssetsSettingSchema.Validate(context.Background(), dup)
	if it := issueAt(t, err, "/assets/1/name"); it.Code != charskema.CodeUniqueness {
		t.Fatalf("expected uniqueness, got %+v", it)
	}

	distinct := map[string]any{"assets": []any{asset("a.png", "http://x/a.png"), asset("b.png", "http://x/b.png")}}
	if err := v1.AssetsSettingSchema.Validate(context.Background(), distinct); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestAssetEntity_RejectsBadURLAndPathName(t *testing.T) {
	err := v1.AssetEntitySchema.Validate(context.Background(), map[string]any{"mimeType": "image/png", "name": "a/b.png", "data": "not a url"})
	if it := issueAt(t, err, "/data"); it.Code != charskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %+v", it)
	}
	if it := issueAt(t, err, "/name"); it.Code != charskema.CodePattern {
		t.Fatalf("expected pattern, got %+v", it)
	}
}

func TestLorebookData_TokenLimitMustBePositive(t *testing.T) {
	for _, limit := range []any{0, -3, 1.5, "10"} {
		err := v1.LorebookDataSchema.Validate(context.Background(), map[string]any{"config": map[string]any{"tokenLimit": limit}})
		issueAt(t, err, "/config/tokenLimit")
	}
	got, err := v1.LorebookDataSchema.Parse(context.Background(), map[string]any{"config": map[string]any{"tokenLimit": 1}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got["data"], []any{}) {
		t.Fatalf("expected empty data, got %#v", got["data"])
	}
}

func TestLorebookData_DuplicateEntryIDs(t *testing.T) {
	entry := func(id string) map[string]any {
		return map[string]any{"id": id, "name": "n", "content": "c"}
	}
	in := map[string]any{
		"config": map[string]any{"tokenLimit": 100},
		"data":   []any{entry("a"), entry("b"), entry("a")},
	}
	err := v1.LorebookDataSchema.Validate(context.Background(), in)
	it := issueAt(t, err, "/data/2/id")
	if it.Code != charskema.CodeUniqueness || it.Params["first"] != 0 {
		t.Fatalf("unexpected issue: %+v", it)
	}
	in["data"] = []any{entry("a"), entry("b")}
	if err := v1.LorebookDataSchema.Validate(context.Background(), in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestLorebookEntry_ConditionsAndStrategy(t *testing.T) {
	in := map[string]any{
		"id": "e", "name": "n", "content": "c",
		"condition": []any{
			map[string]any{"type": "regex_match", "regexPattern": "dragon", "regexFlags": "i"},
			map[string]any{"type": "plain_text_match", "text": "castle"},
			map[string]any{"type": "always"},
		},
		"multipleConditionResolveStrategy": "any",
		"priority":                         -1.5,
	}
	got, err := v1.LorebookEntrySchema.Parse(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["priority"] != -1.5 || len(got["condition"].([]any)) != 3 {
		t.Fatalf("unexpected value: %#v", got)
	}
	if _, ok := got["enabled"]; ok {
		t.Fatalf("optional field must stay absent")
	}

	in["multipleConditionResolveStrategy"] = "most"
	in["condition"] = []any{map[string]any{"type": "regex_match"}}
	err = v1.LorebookEntrySchema.Validate(context.Background(), in)
	if it := issueAt(t, err, "/multipleConditionResolveStrategy"); it.Code != charskema.CodeInvalidEnum {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if it := issueAt(t, err, "/condition/0/regexPattern"); it.Code != charskema.CodeRequired {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestCharacter_DefaultsPopulated(t *testing.T) {
	got, err := v1.CharacterSchema.Parse(context.Background(), minimalCharacter())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{
		"specVersion": 1,
		"id":          "c-1",
		"name":        "Alice",
		"description": "A curious traveller.",
		"prompt": map[string]any{
			"description": "You are Alice.",
			"lorebook": map[string]any{
				"config": map[string]any{"tokenLimit": int64(512)},
				"data":   []any{},
			},
		},
		"executables": map[string]any{
			"runtimeSetting": map[string]any{"timeout": int64(5)},
			"replaceHooks":   map[string]any{"display": []any{}, "input": []any{}, "output": []any{}, "request": []any{}},
		},
		"metadata": map[string]any{"license": "ARR"},
		"assets":   map[string]any{"assets": []any{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
}

func TestCharacter_Idempotent(t *testing.T) {
	ctx := context.Background()
	in := minimalCharacter()
	in["avatarUrl"] = "local:avatar.png"
	first, err := v1.CharacterSchema.Parse(ctx, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := v1.CharacterSchema.Parse(ctx, first)
	if err != nil {
		t.Fatalf("unexpected err on re-parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-parse changed value:\n%#v\n%#v", first, second)
	}
}

func TestCharacter_CollectsAllIssues(t *testing.T) {
	in := minimalCharacter()
	delete(in, "name")
	in["specVersion"] = 2
	in["nickname"] = "Al"
	in["prompt"].(map[string]any)["lorebook"] = map[string]any{"config": map[string]any{"tokenLimit": 0}}
	err := v1.CharacterSchema.Validate(context.Background(), in)
	iss, _ := charskema.AsIssues(err)
	want := map[string]string{
		"/specVersion":                        charskema.CodeInvalidLiteral,
		"/name":                               charskema.CodeRequired,
		"/nickname":                           charskema.CodeUnknownKey,
		"/prompt/lorebook/config/tokenLimit": charskema.CodeTooSmall,
	}
	got := map[string]string{}
	for _, it := range iss {
		got[it.Path] = it.Code
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCharacter_FromJSON(t *testing.T) {
	doc := []byte(`{
		"specVersion": 1, "id": "c", "name": "n", "description": "d",
		"prompt": {"description": "p", "lorebook": {"config": {"tokenLimit": 10}}},
		"executables": {"runtimeSetting": {"mem": 64}, "replaceHooks": {"display": [
			{"input": "foo", "output": "bar", "meta": {"type": "regex", "flag": "g", "priority": 2}}
		]}}
	}`)
	got, err := charskema.ParseJSON(context.Background(), v1.CharacterSchema, doc)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	exec := got["executables"].(map[string]any)
	if rt := exec["runtimeSetting"].(map[string]any); rt["mem"] != int64(64) || rt["timeout"] != int64(5) {
		t.Fatalf("unexpected runtime setting: %#v", rt)
	}
	hook := exec["replaceHooks"].(map[string]any)["display"].([]any)[0].(map[string]any)
	wantMeta := map[string]any{"type": "regex", "flag": "g", "priority": float64(2), "isInputPatternScripted": false, "isOutputScripted": false}
	if !reflect.DeepEqual(hook["meta"], wantMeta) {
		t.Fatalf("got %#v", hook["meta"])
	}
}

func TestReplaceHookMeta_StringVariantDefaults(t *testing.T) {
	got, err := v1.ReplaceHookMetaSchema.Parse(context.Background(), map[string]any{"type": "string"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"type": "string", "caseSensitive": true, "isInputPatternScripted": false, "isOutputScripted": false, "priority": float64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
	err = v1.ReplaceHookMetaSchema.Validate(context.Background(), map[string]any{"type": "glob"})
	if it := issueAt(t, err, "/type"); it.Code != charskema.CodeDiscriminatorUnknown {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestChat_DynamicDefaults(t *testing.T) {
	got, err := v1.ChatSchema.Parse(context.Background(), map[string]any{"id": "chat", "characterId": "c"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["title"] != "Chat" {
		t.Fatalf("unexpected title: %v", got["title"])
	}
	created, ok := got["createdAt"].(float64)
	if !ok || created <= 0 || got["updatedAt"].(float64) < created {
		t.Fatalf("unexpected timestamps: %#v", got)
	}
	if _, ok := got["lorebook"]; ok {
		t.Fatalf("optional lorebook must stay absent")
	}
}

func TestChat_FractionalTimestampsAccepted(t *testing.T) {
	in := map[string]any{"id": "chat", "characterId": "c", "createdAt": 1.7e12 + 0.5, "updatedAt": json.Number("1700000000000.25")}
	got, err := v1.ChatSchema.Parse(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["createdAt"] != 1.7e12+0.5 || got["updatedAt"] != 1700000000000.25 {
		t.Fatalf("unexpected timestamps: %#v", got)
	}
	in["createdAt"] = "yesterday"
	if it := issueAt(t, v1.ChatSchema.Validate(context.Background(), in), "/createdAt"); it.Code != charskema.CodeInvalidType {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestChat_MessagesUniqueAndContent(t *testing.T) {
	msg := func(id string, content map[string]any) map[string]any {
		return map[string]any{"id": id, "chatId": "chat", "role": "user", "content": content}
	}
	text := map[string]any{"type": "text", "data": "hello"}
	file := map[string]any{"type": "file", "data": []byte{0x89, 0x50}, "mimeType": "image/png"}
	in := map[string]any{"id": "chat", "characterId": "c", "messages": []any{msg("1", text), msg("2", file)}}
	got, err := v1.ChatSchema.Parse(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	first := got["messages"].([]any)[0].(map[string]any)
	if _, ok := first["timestamp"].(float64); !ok || !reflect.DeepEqual(first["inlays"], []any{}) {
		t.Fatalf("message defaults missing: %#v", first)
	}

	in["messages"] = []any{msg("1", text), msg("1", map[string]any{"type": "file", "data": 5, "mimeType": "x"})}
	err = v1.ChatSchema.Validate(context.Background(), in)
	if it := issueAt(t, err, "/messages/1/content/data"); it.Code != charskema.CodeInvalidUnion {
		t.Fatalf("unexpected issue: %+v", it)
	}

	in["messages"] = []any{msg("1", text), msg("1", text)}
	err = v1.ChatSchema.Validate(context.Background(), in)
	if it := issueAt(t, err, "/messages/1/id"); it.Code != charskema.CodeUniqueness {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestMessage_RoleAndInlays(t *testing.T) {
	in := map[string]any{
		"id": "m", "chatId": "c", "role": "narrator",
		"content": map[string]any{"type": "text", "data": "x"},
		"inlays": []any{
			map[string]any{"mimeType": "image/png", "name": "i.png", "data": "https://x/i.png"},
			map[string]any{"mimeType": "image/png", "name": "i.png", "data": "https://x/j.png"},
		},
	}
	err := v1.MessageSchema.Validate(context.Background(), in)
	if it := issueAt(t, err, "/role"); it.Code != charskema.CodeInvalidEnum {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if it := issueAt(t, err, "/inlays/1/name"); it.Code != charskema.CodeUniqueness {
		t.Fatalf("unexpected issue: %+v", it)
	}
}
