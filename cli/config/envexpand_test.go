package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestExpand_SingleVar(t *testing.T) {
	got, err := Expand("user: ${USER_NAME}", MapSource{"USER_NAME": "user"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "user: user" {
		t.Errorf("got %q, want %q", got, "user: user")
	}
}

func TestExpand_MultipleVarsPerLine(t *testing.T) {
	src := MapSource{"USER_NAME": "user", "PASS": "pass"}
	got, err := Expand("user: ${USER_NAME} ${PASS}", src)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "user: user pass" {
		t.Errorf("got %q, want %q", got, "user: user pass")
	}
}

func TestExpand_InfixPlacement(t *testing.T) {
	got, err := Expand("user: db_${USER_NAME}_admin", MapSource{"USER_NAME": "user"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "user: db_user_admin" {
		t.Errorf("got %q, want %q", got, "user: db_user_admin")
	}
}

func TestExpand_UndefinedVarFails(t *testing.T) {
	_, err := Expand("password: ${PASSWORD}", MapSource{})
	if err == nil {
		t.Fatal("expected error for undefined variable")
	}
	var undefErr *UndefinedVariableError
	if !errors.As(err, &undefErr) {
		t.Fatalf("expected *UndefinedVariableError, got %T", err)
	}
	if undefErr.Name != "PASSWORD" {
		t.Errorf("expected name PASSWORD, got %q", undefErr.Name)
	}
}

func TestExpand_NoPartialResultOnFailure(t *testing.T) {
	src := MapSource{"DEFINED": "ok"}
	got, err := Expand("a: ${DEFINED}\nb: ${MISSING}", src)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != "" {
		t.Errorf("expected empty result on failure, got %q", got)
	}
}

func TestExpand_NoVars(t *testing.T) {
	input := "no variables here"
	got, err := Expand(input, MapSource{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestExpand_EmptyValueIsDefined(t *testing.T) {
	got, err := Expand("key: [${EMPTY}]", MapSource{"EMPTY": ""})
	if err != nil {
		t.Fatalf("empty value must count as defined: %v", err)
	}
	if got != "key: []" {
		t.Errorf("got %q, want %q", got, "key: []")
	}
}

func TestExpand_OSEnvSource(t *testing.T) {
	t.Setenv("COURIER_TEST_VAR", "hello")

	got, err := Expand("value: ${COURIER_TEST_VAR}", OSEnv())
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "value: hello" {
		t.Errorf("got %q, want %q", got, "value: hello")
	}
}

func TestExpandAndParse_YAMLMapping(t *testing.T) {
	got, err := ExpandAndParse("user: ${USER_NAME}", MapSource{"USER_NAME": "user"})
	if err != nil {
		t.Fatalf("expand and parse: %v", err)
	}
	want := map[string]any{"user": "user"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandAndParse_NestedInYAML(t *testing.T) {
	src := MapSource{"SVC_USER": "admin", "SVC_PASS": "secret"}
	input := `endpoints:
  actions:
    basic_auth:
      username: ${SVC_USER}
      password: ${SVC_PASS}`

	got, err := ExpandAndParse(input, src)
	if err != nil {
		t.Fatalf("expand and parse: %v", err)
	}

	endpoints := got["endpoints"].(map[string]any)
	actions := endpoints["actions"].(map[string]any)
	auth := actions["basic_auth"].(map[string]any)
	if auth["username"] != "admin" || auth["password"] != "secret" {
		t.Errorf("unexpected auth mapping: %v", auth)
	}
}

func TestExpandAndParse_InvalidYAML(t *testing.T) {
	_, err := ExpandAndParse("key: [unclosed", MapSource{})
	if err == nil {
		t.Fatal("expected parse error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestExpandAndParse_Idempotent(t *testing.T) {
	src := MapSource{"USER_NAME": "user", "PASS": "pass"}
	input := "user: ${USER_NAME} ${PASS}"

	first, err := ExpandAndParse(input, src)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := ExpandAndParse(input, src)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat calls differ: %v vs %v", first, second)
	}
}
