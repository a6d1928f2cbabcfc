package swagger

import "testing"

func TestRemoveCurlyBraces(t *testing.T) {
	t.Parallel()
	if got := RemoveCurlyBraces("/vcenter/vm/{vm}/power"); got != "/vcenter/vm/vm/power" {
		t.Fatalf("unexpected %q", got)
	}
	if got := RemoveCurlyBraces("plain"); got != "plain" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestAddQueryParam(t *testing.T) {
	t.Parallel()
	cases := []struct {
		url, param, want string
	}{
		{"/x", "a=1", "/x?a=1"},
		{"/x?a=1", "b=2", "/x?a=1&b=2"},
		{"/x?a=1&b=2", "b=2", "/x?a=1&b=2"},
		{"/x?", "a=1", "/x?a=1"},
		{"/vcenter/vm/{vm}/power", "action=start", "/vcenter/vm/{vm}/power?action=start"},
	}
	for _, c := range cases {
		if got := AddQueryParam(c.url, c.param); got != c.want {
			t.Errorf("AddQueryParam(%q, %q) = %q, want %q", c.url, c.param, got, c.want)
		}
	}
}

func TestAddQueryParam_Idempotent(t *testing.T) {
	t.Parallel()
	once := AddQueryParam("/x?a=1", "b=2")
	if twice := AddQueryParam(once, "b=2"); twice != once {
		t.Fatalf("second call changed url: %q -> %q", once, twice)
	}
}
