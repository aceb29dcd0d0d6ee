package tools

import "testing"

func TestParseVersionJava(t *testing.T) {
	def, _ := Lookup("java")

	cases := []struct {
		name   string
		output string
		raw    string
		major  int
		minor  int
		ok     bool
	}{
		{
			name:   "legacy 1.8",
			output: `openjdk version "1.8.0_301"` + "\nOpenJDK Runtime Environment",
			raw:    "1.8.0_301",
			major:  8,
			ok:     true,
		},
		{
			name:   "modern 17",
			output: `java version "17.0.2" 2022-01-18 LTS`,
			raw:    "17.0.2",
			major:  17,
			ok:     true,
		},
		{
			name:   "bare 11",
			output: `openjdk version "11" 2018-09-25`,
			raw:    "11",
			major:  11,
			ok:     true,
		},
		{
			name:   "fallback pattern",
			output: `weirdvm version "21.0.1"`,
			raw:    "21.0.1",
			major:  21,
			ok:     true,
		},
		{
			name:   "garbage",
			output: "no versions here",
			ok:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ParseVersion("java", tc.output, def.VersionPatterns)
			if v.OK != tc.ok {
				t.Fatalf("OK = %v, want %v", v.OK, tc.ok)
			}
			if !tc.ok {
				return
			}
			if v.Raw != tc.raw {
				t.Fatalf("Raw = %q, want %q", v.Raw, tc.raw)
			}
			if v.Major != tc.major {
				t.Fatalf("Major = %d, want %d", v.Major, tc.major)
			}
		})
	}
}

func TestParseVersionMaven(t *testing.T) {
	def, _ := Lookup("mvn")
	output := "Apache Maven 3.9.6 (bc0240f3c744dd6b6ec2920b3cd08dcc295161ae)\nMaven home: /opt/maven"

	v := ParseVersion("mvn", output, def.VersionPatterns)
	if !v.OK {
		t.Fatalf("expected parse, got %+v", v)
	}
	if v.Raw != "3.9.6" || v.Major != 3 || v.Minor != 9 {
		t.Fatalf("got %+v", v)
	}
}

func TestParseVersionPython(t *testing.T) {
	def, _ := Lookup("python")

	v := ParseVersion("python", "Python 3.10.12", def.VersionPatterns)
	if !v.OK || v.Major != 3 || v.Minor != 10 {
		t.Fatalf("got %+v", v)
	}
}

func TestParseVersionRepeatable(t *testing.T) {
	def, _ := Lookup("javac")
	first := ParseVersion("javac", "javac 1.8.0_301", def.VersionPatterns)
	second := ParseVersion("javac", "javac 1.8.0_301", def.VersionPatterns)
	if first != second {
		t.Fatalf("parse not deterministic: %+v vs %+v", first, second)
	}
	if first.Major != 8 {
		t.Fatalf("Major = %d", first.Major)
	}
}

func TestRequireMajor(t *testing.T) {
	ok := Version{Tool: "java", Raw: "17.0.2", Major: 17, OK: true}
	if err := RequireMajor(ok, 8); err != nil {
		t.Fatalf("unexpected gate failure: %v", err)
	}

	low := Version{Tool: "java", Raw: "1.7.0", Major: 7, OK: true}
	if err := RequireMajor(low, 8); err == nil {
		t.Fatal("expected gate failure for major 7")
	}

	unknown := Version{Tool: "java", Raw: "mystery"}
	if err := RequireMajor(unknown, 8); err == nil {
		t.Fatal("expected gate failure for unparsed version")
	}
}
