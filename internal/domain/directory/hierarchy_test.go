package directory

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"leavetrack/internal/domain/auth"
)

type fakeStore struct {
	users  map[string]User
	nextID int
}

func newFakeStore(users ...User) *fakeStore {
	f := &fakeStore{users: map[string]User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeStore) UserByID(_ context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) PasswordHashByEmail(_ context.Context, email string) (string, string, error) {
	u, err := f.UserByEmail(context.Background(), email)
	if err != nil {
		return "", "", err
	}
	return u.ID, "hash", nil
}

func (f *fakeStore) ListActive(context.Context) ([]User, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, _, role, managerID string) (string, error) {
	f.nextID++
	id := fmt.Sprintf("u-%d", f.nextID)
	f.users[id] = User{ID: id, Name: name, Email: email, Role: role, ManagerID: managerID}
	return id, nil
}

func (f *fakeStore) SetManager(_ context.Context, userID, managerID string) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.ManagerID = managerID
	f.users[userID] = u
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, userID string) error {
	delete(f.users, userID)
	return nil
}

func chainStore() *fakeStore {
	return newFakeStore(
		User{ID: "admin", Role: auth.RoleAdmin},
		User{ID: "hr", Role: auth.RoleHR, ManagerID: "admin"},
		User{ID: "manager", Role: auth.RoleManager, ManagerID: "hr"},
		User{ID: "employee", Role: auth.RoleEmployee, ManagerID: "manager"},
	)
}

func TestResolveChainFullDepth(t *testing.T) {
	svc := NewService(chainStore())

	chain, err := svc.ResolveChain(context.Background(), "employee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Chain{ManagerID: "manager", Level2ApproverID: "hr", Level3ApproverID: "admin"}
	if chain != want {
		t.Fatalf("got %+v, want %+v", chain, want)
	}
}

func TestResolveChainStopsAtDepthCeiling(t *testing.T) {
	store := chainStore()
	store.users["root"] = User{ID: "root"}
	admin := store.users["admin"]
	admin.ManagerID = "root"
	store.users["admin"] = admin

	svc := NewService(store)
	chain, err := svc.ResolveChain(context.Background(), "employee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Four managers exist above the employee but only three levels resolve.
	want := Chain{ManagerID: "manager", Level2ApproverID: "hr", Level3ApproverID: "admin"}
	if chain != want {
		t.Fatalf("got %+v, want %+v", chain, want)
	}
}

func TestResolveChainTerminatesOnMissingLink(t *testing.T) {
	svc := NewService(newFakeStore(
		User{ID: "manager", Role: auth.RoleManager},
		User{ID: "employee", Role: auth.RoleEmployee, ManagerID: "manager"},
	))

	chain, err := svc.ResolveChain(context.Background(), "employee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Chain{ManagerID: "manager"}
	if chain != want {
		t.Fatalf("got %+v, want %+v", chain, want)
	}
}

func TestResolveChainUnknownUser(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.ResolveChain(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMaxApprovalDepth(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{auth.RoleEmployee, 3},
		{auth.RoleManager, 2},
		{auth.RoleHR, 1},
		{auth.RoleAdmin, 1},
		{"unknown", 1},
	}
	for _, tt := range tests {
		if got := MaxApprovalDepth(tt.role); got != tt.want {
			t.Fatalf("MaxApprovalDepth(%s) = %d, want %d", tt.role, got, tt.want)
		}
	}
}

func TestUpdateManagerRejectsSelf(t *testing.T) {
	svc := NewService(chainStore())
	if err := svc.UpdateManager(context.Background(), "employee", "employee"); err != ErrManagerCycle {
		t.Fatalf("got %v, want ErrManagerCycle", err)
	}
}

func TestUpdateManagerRejectsCycle(t *testing.T) {
	svc := NewService(chainStore())
	// manager already (transitively) reports to hr, and hr to admin;
	// pointing admin at employee would close the loop.
	if err := svc.UpdateManager(context.Background(), "admin", "employee"); err != ErrManagerCycle {
		t.Fatalf("got %v, want ErrManagerCycle", err)
	}
	if err := svc.UpdateManager(context.Background(), "hr", "manager"); err != ErrManagerCycle {
		t.Fatalf("got %v, want ErrManagerCycle", err)
	}
}

func TestUpdateManagerAllowsReassignment(t *testing.T) {
	store := chainStore()
	store.users["manager2"] = User{ID: "manager2", Role: auth.RoleManager, ManagerID: "hr"}
	svc := NewService(store)

	if err := svc.UpdateManager(context.Background(), "employee", "manager2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.users["employee"].ManagerID != "manager2" {
		t.Fatal("manager was not updated")
	}
}

func TestUpdateManagerAllowsClearing(t *testing.T) {
	store := chainStore()
	svc := NewService(store)
	if err := svc.UpdateManager(context.Background(), "employee", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.users["employee"].ManagerID != "" {
		t.Fatal("manager was not cleared")
	}
}

func TestCreateUserValidatesRoleAndManager(t *testing.T) {
	svc := NewService(chainStore())

	if _, err := svc.CreateUser(context.Background(), "X", "x@example.com", "pw", "superuser", ""); err != ErrInvalidRole {
		t.Fatalf("got %v, want ErrInvalidRole", err)
	}
	if _, err := svc.CreateUser(context.Background(), "X", "x@example.com", "pw", auth.RoleEmployee, "ghost"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

type recordingProvisioner struct {
	provisioned []string
}

func (p *recordingProvisioner) ProvisionUser(_ context.Context, userID string) error {
	p.provisioned = append(p.provisioned, userID)
	return nil
}

func TestCreateUserProvisionsBalances(t *testing.T) {
	svc := NewService(chainStore())
	prov := &recordingProvisioner{}
	svc.Provisioner = prov

	id, err := svc.CreateUser(context.Background(), "New Hire", "new@example.com", "pw", auth.RoleEmployee, "manager")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prov.provisioned) != 1 || prov.provisioned[0] != id {
		t.Fatalf("provisioner calls: %v", prov.provisioned)
	}
}
