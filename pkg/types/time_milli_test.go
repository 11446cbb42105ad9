package types

import (
	"fmt"
	"testing"
)

func TestTimeMilli(t *testing.T) {
	s := "2020-02-10T10:35:30.075Z"
	tt := MustParseMilli(s)

	if tt.String() != "2020-02-10T10:35:30.075Z" {
		t.Fatal("must be 2020-02-10T10:35:30.075Z, but got ", tt.String())
	}

	tt = TimeMilli{}
	err := json.Unmarshal([]byte(fmt.Sprintf("%q", s)), &tt)
	if err != nil {
		t.Fatal(err)
	}
	if tt.String() != "2020-02-10T10:35:30.075Z" {
		t.Fatal("must be 2020-02-10T10:35:30.075Z, but got ", tt.String())
	}

	bts, err := json.Marshal(tt)
	if err != nil {
		t.Fatal(err)
	}
	if string(bts) != `"2020-02-10T10:35:30.075Z"` {
		t.Fatal("must be 2020-02-10T10:35:30.075Z, but got ", string(bts))
	}
}

func TestTimeMilliNull(t *testing.T) {
	tt := TimeMilliNow()
	if err := json.Unmarshal([]byte("null"), &tt); err != nil {
		t.Fatal(err)
	}
	if tt.Valid {
		t.Fatal("must be invalid after null")
	}
	bts, err := json.Marshal(tt)
	if err != nil {
		t.Fatal(err)
	}
	if string(bts) != "null" {
		t.Fatal("must be null, but got ", string(bts))
	}
}

func TestTimeMilliEpoch(t *testing.T) {
	tt := TimeMilli{}
	if err := json.Unmarshal([]byte("1581330930075"), &tt); err != nil {
		t.Fatal(err)
	}
	if tt.String() != "2020-02-10T10:35:30.075Z" {
		t.Fatal("must be 2020-02-10T10:35:30.075Z, but got ", tt.String())
	}
	if !MustParseMilli("2020-02-10T10:35:30.000Z").Before(tt) {
		t.Fatal("must be before")
	}
	if err := json.Unmarshal([]byte("true"), &tt); err == nil {
		t.Fatal("bool must be rejected")
	}
}
