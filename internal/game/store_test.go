package game

import (
	"sync"
	"testing"

	"github.com/efreeman/world-war/api/internal/model"
)

func TestReduce_UnknownActionIsNoOp(t *testing.T) {
	s := testState(testUser("alice", 0, nil))
	next, err := Reduce(s, Action{Type: "DOES_NOT_EXIST", Now: t0})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if next != s {
		t.Fatal("unknown action returned a different state reference")
	}
}

// A malformed payload panics inside the handler; the boundary must swallow it
// and hand back the prior tree.
func TestReduce_PanicRecoveredStateUnchanged(t *testing.T) {
	s := testState(testUser("alice", 0, nil))
	next, err := Reduce(s, Action{Type: ActionGiftItems, Now: t0, Payload: "not a payload"})
	if err != ErrInternal {
		t.Fatalf("err = %v, want ErrInternal", err)
	}
	if next != s {
		t.Fatal("state changed after panic")
	}
}

func TestReduce_CopyOnWriteLeavesPriorTreeIntact(t *testing.T) {
	s := testState(testUser("alice", 100, model.Resources{model.ResourceOil: 10}))
	next := dispatch(t, s, ActionGiftItems, GiftItemsPayload{
		TargetID: "alice", Resources: model.Resources{model.ResourceOil: 5}, Money: 50,
	})

	if next == s {
		t.Fatal("accepted action returned the same reference")
	}
	prior := s.UserByID("alice")
	if prior.Money != 100 || prior.Resources[model.ResourceOil] != 10 {
		t.Fatalf("prior tree mutated: %+v", prior)
	}
	if got := next.UserByID("alice"); got.Money != 150 || got.Resources[model.ResourceOil] != 15 {
		t.Fatalf("next tree wrong: %+v", got)
	}
}

func TestStore_DispatchNotifiesSubscribersOnChangeOnly(t *testing.T) {
	st := NewStore(testState(testUser("alice", 0, nil)))

	var calls int
	st.Subscribe(func(prev, next *State, a Action) {
		calls++
		if prev == next {
			t.Error("subscriber called with unchanged tree")
		}
	})

	if _, err := st.Dispatch(Action{Type: ActionGiftItems, Payload: GiftItemsPayload{TargetID: "alice", Money: 1}}); err != nil {
		t.Fatal(err)
	}
	// Rejected action: no notification.
	if _, err := st.Dispatch(Action{Type: ActionGiftItems, Payload: GiftItemsPayload{TargetID: "ghost", Money: 1}}); err != ErrUserNotFound {
		t.Fatalf("err = %v", err)
	}
	// Unknown action: no notification.
	st.Dispatch(Action{Type: "NOPE"})

	if calls != 1 {
		t.Fatalf("subscriber calls = %d, want 1", calls)
	}
}

func TestStore_SerializesConcurrentDispatch(t *testing.T) {
	st := NewStore(testState(testUser("alice", 0, nil)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(Action{Type: ActionGiftItems, Payload: GiftItemsPayload{TargetID: "alice", Money: 1}})
		}()
	}
	wg.Wait()

	if got := st.State().UserByID("alice").Money; got != 50 {
		t.Fatalf("money = %d, want 50 (lost updates)", got)
	}
}

func TestLoadData_ReplacesTree(t *testing.T) {
	st := NewStore(testState())
	restored := testState(testUser("alice", 123, nil))

	next, err := st.Dispatch(Action{Type: ActionLoadData, Payload: LoadDataPayload{State: restored}})
	if err != nil {
		t.Fatal(err)
	}
	if next != restored {
		t.Fatal("load did not install the restored tree")
	}
}
