package metrics

import "testing"

func TestRouteLabel(t *testing.T) {
	cases := map[string]string{
		"/tasks":                 "/tasks",
		"/tasks/status/abc-123":  "/tasks/status/{taskId}",
		"/user/login":            "/user/login",
		"/user/signup":           "/user/signup",
		"/user/9f0c2d":           "/user/{userId}",
		"/projects":              "/projects",
		"/admin/login":           "/admin/login",
	}

	for path, want := range cases {
		if got := routeLabel(path); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}
