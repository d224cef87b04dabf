package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func day(s string) time.Time {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        panic(err)
    }
    return t.UTC()
}

func TestIntervalOverlaps(t *testing.T) {
    tests := []struct {
        name string
        a    Interval
        b    Interval
        want bool
    }{
        {
            name: "identical intervals overlap",
            a:    NewInterval(day("2025-09-04"), day("2025-09-06")),
            b:    NewInterval(day("2025-09-04"), day("2025-09-06")),
            want: true,
        },
        {
            name: "partial overlap",
            a:    NewInterval(day("2025-09-04"), day("2025-09-06")),
            b:    NewInterval(day("2025-09-05"), day("2025-09-07")),
            want: true,
        },
        {
            name: "containment",
            a:    NewInterval(day("2025-09-01"), day("2025-09-10")),
            b:    NewInterval(day("2025-09-04"), day("2025-09-06")),
            want: true,
        },
        {
            name: "back to back stays do not overlap",
            a:    NewInterval(day("2025-09-04"), day("2025-09-06")),
            b:    NewInterval(day("2025-09-06"), day("2025-09-08")),
            want: false,
        },
        {
            name: "checkout before checkin",
            a:    NewInterval(day("2025-09-01"), day("2025-09-03")),
            b:    NewInterval(day("2025-09-05"), day("2025-09-07")),
            want: false,
        },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
            // overlap is symmetric
            assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
        })
    }
}

func TestIntervalValid(t *testing.T) {
    assert.True(t, NewInterval(day("2025-09-04"), day("2025-09-05")).Valid())
    assert.False(t, NewInterval(day("2025-09-04"), day("2025-09-04")).Valid(), "zero-length interval is invalid")
    assert.False(t, NewInterval(day("2025-09-06"), day("2025-09-04")).Valid(), "inverted interval is invalid")
}

func TestNormalizeDateDropsTimeAndZone(t *testing.T) {
    loc := time.FixedZone("UTC+5", 5*3600)
    // 02:30 on Sep 5 in UTC+5 is still Sep 4 in UTC; normalization works
    // on the UTC calendar day.
    in := time.Date(2025, 9, 5, 2, 30, 0, 0, loc)
    assert.Equal(t, day("2025-09-04"), NormalizeDate(in))

    in = time.Date(2025, 9, 5, 23, 59, 59, 0, time.UTC)
    assert.Equal(t, day("2025-09-05"), NormalizeDate(in))
}

func TestParseDate(t *testing.T) {
    got, err := ParseDate("2025-09-04")
    require.NoError(t, err)
    assert.Equal(t, day("2025-09-04"), got)

    got, err = ParseDate("2025-09-04T15:04:05Z")
    require.NoError(t, err)
    assert.Equal(t, day("2025-09-04"), got)

    _, err = ParseDate("04/09/2025")
    assert.Error(t, err)
}

func TestIntervalDays(t *testing.T) {
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))
    assert.Equal(t, []time.Time{day("2025-09-04"), day("2025-09-05")}, iv.Days(),
        "checkout day is excluded")

    assert.Nil(t, NewInterval(day("2025-09-04"), day("2025-09-04")).Days())
}
