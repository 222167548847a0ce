package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, class := range Classes() {
		t.Run(class, func(t *testing.T) {
			m, err := New(class)
			require.NoError(t, err)
			assert.Equal(t, class, m.ClassName())

			_, err = uuid.Parse(m.Meta().ID)
			assert.NoError(t, err)
			assert.False(t, m.Meta().CreatedAt.IsZero())
			assert.Equal(t, m.Meta().CreatedAt, m.Meta().UpdatedAt)
			assert.Equal(t, class+"."+m.Meta().ID, Key(m))
		})
	}

	t.Run("UnknownClass", func(t *testing.T) {
		_, err := New("MyModel")
		assert.True(t, errors.Is(err, ErrUnknownClass))
	})

	t.Run("DistinctIDs", func(t *testing.T) {
		a, b := NewState(), NewState()
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestToMapFromMapRoundTrip(t *testing.T) {
	p := NewPlace()
	p.Name = "Loft"
	p.NumberRooms = 3
	p.Latitude = 37.77
	p.AmenityIDs = []string{"a1", "a2"}
	require.NoError(t, SetAttr(p, "pets", "yes"))

	data := ToMap(p)
	assert.Equal(t, "Place", data["__class__"])
	assert.Equal(t, p.CreatedAt.Format(TimeFormat), data["created_at"])

	// Go through JSON the way the file engine does.
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var decoded map[string]any
	require.NoError(t, dec.Decode(&decoded))

	back, err := FromMap(decoded)
	require.NoError(t, err)
	if diff := cmp.Diff(data, ToMap(back)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMapErrors(t *testing.T) {
	_, err := FromMap(map[string]any{"id": "1"})
	assert.ErrorIs(t, err, ErrMissingClass)

	_, err = FromMap(map[string]any{"__class__": "Nope"})
	assert.ErrorIs(t, err, ErrUnknownClass)

	_, err = FromMap(map[string]any{"__class__": "State", "created_at": "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSetAttr(t *testing.T) {
	t.Run("CoercesDeclaredFields", func(t *testing.T) {
		p := NewPlace()
		require.NoError(t, SetAttr(p, "number_rooms", "4"))
		require.NoError(t, SetAttr(p, "latitude", "12.5"))
		require.NoError(t, SetAttr(p, "max_guest", 6.0))
		assert.Equal(t, 4, p.NumberRooms)
		assert.Equal(t, 12.5, p.Latitude)
		assert.Equal(t, 6, p.MaxGuest)
	})

	t.Run("RejectsIncompatibleValue", func(t *testing.T) {
		p := NewPlace()
		err := SetAttr(p, "number_rooms", "many")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("RejectsFractionForInt", func(t *testing.T) {
		p := NewPlace()
		p.NumberRooms = 2
		assert.ErrorIs(t, SetAttr(p, "number_rooms", 4.5), ErrInvalidValue)
		assert.ErrorIs(t, SetAttr(p, "max_guest", json.Number("4.5")), ErrInvalidValue)
		assert.ErrorIs(t, SetAttrs(p, map[string]any{"price_by_night": 99.99}), ErrInvalidValue)
		assert.Equal(t, 2, p.NumberRooms)
		assert.Equal(t, 0, p.PriceByNight)
	})

	t.Run("UnknownGoesToExtra", func(t *testing.T) {
		s := NewState()
		require.NoError(t, SetAttr(s, "capital", "Sacramento"))
		v, ok := Attr(s, "capital")
		assert.True(t, ok)
		assert.Equal(t, "Sacramento", v)
	})

	t.Run("SetAttrsSkipsProtected", func(t *testing.T) {
		c := NewCity()
		id, created := c.ID, c.CreatedAt
		require.NoError(t, SetAttrs(c, map[string]any{
			"id":         "x",
			"created_at": "2017-09-28T21:05:54.119427",
			"state_id":   "s1",
			"name":       "Napa",
		}, "state_id"))
		assert.Equal(t, id, c.ID)
		assert.Equal(t, created, c.CreatedAt)
		assert.Equal(t, "", c.StateID)
		assert.Equal(t, "Napa", c.Name)
	})
}

func TestUserPassword(t *testing.T) {
	u := NewUser()
	require.NoError(t, SetAttr(u, "password", "root"))
	assert.NotEqual(t, "root", u.Password)
	assert.True(t, u.CheckPassword("root"))
	assert.False(t, u.CheckPassword("toor"))

	// A stored hash is kept as is.
	hash := u.Password
	require.NoError(t, SetAttr(u, "password", hash))
	assert.Equal(t, hash, u.Password)

	_, ok := PublicMap(u)["password"]
	assert.False(t, ok)
	_, ok = ToMap(u)["password"]
	assert.True(t, ok)
}

func TestString(t *testing.T) {
	s := NewState()
	s.Name = "O'Hare"
	s.CreatedAt = time.Date(2017, 9, 28, 21, 5, 54, 119427000, time.Local)
	s.UpdatedAt = s.CreatedAt
	require.NoError(t, SetAttr(s, "rank", int64(3)))

	want := "[State] (" + s.ID + ") {'id': '" + s.ID + "', " +
		"'created_at': '2017-09-28T21:05:54.119427', " +
		"'updated_at': '2017-09-28T21:05:54.119427', " +
		`'name': 'O\'Hare', 'rank': 3}`
	assert.Equal(t, want, String(s))
}

func TestTouch(t *testing.T) {
	a := NewAmenity()
	before := a.UpdatedAt
	time.Sleep(time.Millisecond)
	Touch(a)
	assert.True(t, a.UpdatedAt.After(before))
	assert.Equal(t, before, a.CreatedAt)
}

func TestRelations(t *testing.T) {
	state := NewState()
	city := NewCity()
	city.StateID = state.ID
	other := NewCity()
	place := NewPlace()
	place.CityID = city.ID
	review := NewReview()
	review.PlaceID = place.ID
	wifi := NewAmenity()
	place.LinkAmenity(wifi.ID)
	place.LinkAmenity("gone")

	objs := map[string]Model{}
	for _, m := range []Model{state, city, other, place, review, wifi} {
		objs[Key(m)] = m
	}

	assert.Equal(t, []*City{city}, CitiesOf(objs, state.ID))
	assert.Equal(t, []*Place{place}, PlacesOf(objs, city.ID))
	assert.Equal(t, []*Review{review}, ReviewsOf(objs, place.ID))
	assert.Equal(t, []*Amenity{wifi}, AmenitiesOf(objs, place))

	assert.False(t, place.LinkAmenity(wifi.ID))
	assert.True(t, place.UnlinkAmenity(wifi.ID))
	assert.False(t, place.UnlinkAmenity(wifi.ID))
	assert.Len(t, Sorted(objs), 6)
}

func TestClone(t *testing.T) {
	p := NewPlace()
	p.LinkAmenity("a1")
	require.NoError(t, SetAttr(p, "pets", "no"))

	c := Clone(p).(*Place)
	assert.Equal(t, ToMap(p), ToMap(c))

	c.LinkAmenity("a2")
	c.Extra["pets"] = "yes"
	c.Name = "changed"
	assert.Equal(t, []string{"a1"}, p.AmenityIDs)
	assert.Equal(t, "no", p.Extra["pets"])
	assert.Equal(t, "", p.Name)
}
