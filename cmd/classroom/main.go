package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/wannazaw/classroom-client/internal/api"
	"github.com/wannazaw/classroom-client/internal/app"
	"github.com/wannazaw/classroom-client/internal/config"
	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/session"
	"github.com/wannazaw/classroom-client/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	store := session.NewStore(session.NewFileStorage(cfg.SessionFile), logger)
	policy := transport.UnauthorizedPolicyFunc(func(context.Context) {
		_ = store.Clear()
		fmt.Fprintln(os.Stderr, "Session expired. Please login again.")
	})
	client := transport.New(cfg.APIBaseURL, cfg.HTTPTimeout, store, policy, logger)
	services := api.New(client, store, logger)

	if _, err := store.Restore(); err != nil {
		logger.Warn("Could not restore session: " + err.Error())
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:], services, store); err != nil {
		// Every failure resolves to a message, never to a crash. A 401 was
		// already announced by the policy.
		if msg := userMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	}
}

func run(ctx context.Context, command string, args []string, services *api.Client, store *session.Store) error {
	switch command {
	case "register":
		return runRegister(ctx, args, services)
	case "login":
		return runLogin(ctx, args, services)
	case "logout":
		return services.Auth.Logout()
	case "whoami":
		return runWhoami(store)
	case "classes":
		return runClasses(ctx, services, store, false)
	case "archived":
		return runClasses(ctx, services, store, true)
	case "create-class":
		return runCreateClass(ctx, args, services, store)
	case "join":
		return runJoin(ctx, args, services, store)
	case "participants":
		return runParticipants(ctx, args, services)
	case "classwork":
		return runClassWork(ctx, args, services)
	case "stream":
		return runStream(ctx, args, services)
	case "announce":
		return runAnnounce(ctx, args, services, store)
	case "topics":
		return runTopics(ctx, services, store)
	case "todos":
		return runTodos(ctx, services, store)
	case "notifications":
		return runNotifications(ctx, services, store)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: classroom <command> [flags]

Commands:
  register        create an account (-name, -email, -password)
  login           sign in (-email, -password)
  logout          sign out and clear the stored session
  whoami          show the signed-in user
  classes         list active classes
  archived        list archived classes
  create-class    create a class (-name, -section, -subject, -room)
  join            join a class by code (-code)
  participants    show a class roster (-class)
  classwork       show topics with materials and assignments (-class)
  stream          show class announcements (-class)
  announce        post an announcement (-class, -message, -title)
  topics          list your topics
  todos           list your to-do items
  notifications   list your notifications`)
}

// userMessage maps an error to what the user should see: server messages
// verbatim, validation errors as-is, anything network-shaped as a generic
// failure line.
func userMessage(err error) string {
	if errors.Is(err, transport.ErrUnauthorized) {
		return ""
	}
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The server could not handle the request. Please try again."
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "Something went wrong. Please try again."
	}
	return err.Error()
}

var errNotSignedIn = errors.New("Please login first.")

func currentUser(store *session.Store) (model.User, error) {
	sess, ok := store.Current()
	if !ok {
		return model.User{}, errNotSignedIn
	}
	return sess.User, nil
}

func runRegister(ctx context.Context, args []string, services *api.Client) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	summary, err := services.Auth.Register(ctx, api.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s <%s>. You can login now.\n", summary.Name, summary.Email)
	return nil
}

func runLogin(ctx context.Context, args []string, services *api.Client) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	sess, err := services.Auth.Login(ctx, api.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s <%s>\n", sess.User.Name, sess.User.Email)
	return nil
}

func runWhoami(store *session.Store) error {
	user, err := currentUser(store)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
	return nil
}

func runClasses(ctx context.Context, services *api.Client, store *session.Store, archived bool) error {
	user, err := currentUser(store)
	if err != nil {
		return err
	}

	classes, err := services.Classes.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	active, archivedClasses := model.PartitionByArchived(classes)

	list := active
	if archived {
		list = archivedClasses
	}
	if len(list) == 0 {
		fmt.Println("No classes.")
		return nil
	}
	for _, c := range list {
		fmt.Printf("[%d] %s", c.ID, c.Name)
		if c.Section != "" {
			fmt.Printf(" (%s)", c.Section)
		}
		fmt.Printf("  role=%s code=%s\n", c.Role, c.ClassCode)
	}
	return nil
}

func runCreateClass(ctx context.Context, args []string, services *api.Client, store *session.Store) error {
	fs := flag.NewFlagSet("create-class", flag.ExitOnError)
	name := fs.String("name", "", "class name")
	section := fs.String("section", "", "section")
	subject := fs.String("subject", "", "subject")
	room := fs.String("room", "", "room")
	_ = fs.Parse(args)

	user, err := currentUser(store)
	if err != nil {
		return err
	}

	class, err := services.Classes.Create(ctx, api.CreateClassRequest{
		UserID:  user.ID,
		Name:    *name,
		Section: *section,
		Subject: *subject,
		Room:    *room,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Class %q created. Share code %s to invite students.\n", class.Name, class.ClassCode)
	return nil
}

func runJoin(ctx context.Context, args []string, services *api.Client, store *session.Store) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	code := fs.String("code", "", "class code, 5-8 letters or numbers")
	_ = fs.Parse(args)

	user, err := currentUser(store)
	if err != nil {
		return err
	}

	resp, err := services.Classes.Enroll(ctx, *code, user.ID)
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}

func runParticipants(ctx context.Context, args []string, services *api.Client) error {
	classID, err := classIDFlag("participants", args)
	if err != nil {
		return err
	}

	participants, err := services.Classes.Participants(ctx, classID)
	if err != nil {
		return err
	}
	for _, p := range participants {
		fmt.Printf("%-12s %s\n", p.Role, p.Name)
	}
	return nil
}

func runClassWork(ctx context.Context, args []string, services *api.Client) error {
	classID, err := classIDFlag("classwork", args)
	if err != nil {
		return err
	}

	topics, err := services.Classes.TopicsWithWork(ctx, classID)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		fmt.Println("No class work yet.")
		return nil
	}
	for _, t := range topics {
		fmt.Printf("# %s\n", t.TopicName)
		for _, m := range t.Materials {
			fmt.Printf("  material:   %s\n", m.Title)
		}
		for _, a := range t.Assignments {
			fmt.Printf("  assignment: %s%s\n", a.Title, formatDue(a.DueDate))
		}
	}
	return nil
}

func runStream(ctx context.Context, args []string, services *api.Client) error {
	classID, err := classIDFlag("stream", args)
	if err != nil {
		return err
	}

	stream, err := services.Announcements.List(ctx, classID)
	if err != nil {
		return err
	}
	if len(stream) == 0 {
		fmt.Println("Nothing on the stream yet.")
		return nil
	}
	for _, a := range stream {
		fmt.Printf("%s  %s\n", a.CreatedAt.Format("02.01.2006 15:04"), a.Message)
	}
	return nil
}

func runAnnounce(ctx context.Context, args []string, services *api.Client, store *session.Store) error {
	fs := flag.NewFlagSet("announce", flag.ExitOnError)
	classID := fs.Int64("class", 0, "class id")
	title := fs.String("title", "", "announcement title")
	message := fs.String("message", "", "announcement text")
	_ = fs.Parse(args)

	user, err := currentUser(store)
	if err != nil {
		return err
	}

	_, err = services.Announcements.Create(ctx, *classID, api.CreateAnnouncementRequest{
		Title:           *title,
		Message:         *message,
		CreatedByUserID: user.ID,
	})
	if err != nil {
		return err
	}
	fmt.Println("Announcement posted.")
	return nil
}

func runTopics(ctx context.Context, services *api.Client, store *session.Store) error {
	user, err := currentUser(store)
	if err != nil {
		return err
	}

	topics, err := services.Topics.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, t := range topics {
		fmt.Printf("[%d] %s\n", t.ID, t.Title)
	}
	return nil
}

func runTodos(ctx context.Context, services *api.Client, store *session.Store) error {
	user, err := currentUser(store)
	if err != nil {
		return err
	}

	todos, err := services.Todos.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	grouped := model.GroupByStatus(todos)
	for _, status := range []model.TodoStatus{model.TodoAssigned, model.TodoMissed, model.TodoDone} {
		items := grouped[status]
		if len(items) == 0 {
			continue
		}
		fmt.Printf("%s:\n", status)
		for _, t := range items {
			fmt.Printf("  %s%s\n", t.Title, formatDue(t.DueDate))
		}
	}
	return nil
}

func runNotifications(ctx context.Context, services *api.Client, store *session.Store) error {
	user, err := currentUser(store)
	if err != nil {
		return err
	}

	notifications, err := services.Notifications.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	unread, read := model.PartitionByRead(notifications)
	for _, n := range unread {
		fmt.Printf("* %s\n", n.Message)
	}
	for _, n := range read {
		fmt.Printf("  %s\n", n.Message)
	}
	return nil
}

func classIDFlag(name string, args []string) (int64, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	classID := fs.Int64("class", 0, "class id")
	_ = fs.Parse(args)
	if *classID == 0 {
		return 0, fmt.Errorf("-class is required")
	}
	return *classID, nil
}

func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return "  due " + due.Format("02.01.2006 15:04")
}
