/*
Package navigator orchestrates navigation for tree-structured, stack-based
user interfaces.

# Overview

A Session owns a tree of navigation stacks. Each stack is driven by a
Navigator that holds its path (the back stack), an optional sheet and an
optional cover. Stacks find each other by id through the session's
registry; no stack holds a pointer to another across the tree.

	loop := schedule.NewMainLoop()
	session := navigator.NewSession(navigator.WithScheduler(loop))
	go loop.Run(ctx)

	loop.Post(func() {
	    root := session.Root()
	    home := root.Mount("home", navigator.PlacementTab)
	    home.Push(Page{N: 2})
	    home.Navigate(Login{}) // Login chooses MethodSheet
	})

# Execution Context

Navigation state is confined to one execution context, the Scheduler.
Every Navigator, Session and Run method must be called from a function
running on it (Session.Do posts one from any goroutine). Only IsEmpty and
Count are safe to read from elsewhere. Delayed resumes and gate
completions hop back onto the scheduler before touching state.

# Destinations

Any comparable value can be pushed or presented. The value is boxed in an
AnyDestination whose identity is a hash of its type and contents, so two
destinations are equal exactly when their identities match. A value picks
its presentation by implementing MethodProvider; the default is a push.

# Action Lists

A router turns a route into an ordered list of Actions and hands it to
Perform:

	run := session.Perform(
	    navigator.Reset(),
	    navigator.Send(Tab("home")),
	    navigator.PopAllIn("home"),
	    navigator.Push(Page{N: 2}),
	)

Actions run strictly in order. Values implementing StackTargeter, and
Select, move the target stack for the rest of the list. Targets that are
not mounted are skipped without failing the list. AuthenticationRequired
suspends the rest of the list until the session's Gate opens; lists
performed meanwhile queue behind it.

# Send and Receive

Send broadcasts a value, plus an optional remainder of follow-up values, to
every receiver registered for its type:

	navigator.Receive(home, func(p Page, nav *navigator.Navigator) navigator.Resume {
	    nav.Push(p)
	    return navigator.Auto()
	})

The returned Resume decides what happens to the remainder: Auto waits the
session's resume delay before sending it, After waits a given time,
Immediately sends it now, With replaces it, ToCheckpoint abandons it and
returns to a checkpoint, Cancel drops it. Delivery is a broadcast: every
matching receiver sees the value, so concurrently mounted scopes should
receive distinct types.

# Checkpoints

A checkpoint remembers a stack's depth and whether it was presenting a
modal. Returning to it truncates the path and dismisses anything presented
since:

	root.Checkpoint("before-login")
	// ... push, present ...
	root.ReturnToCheckpoint("before-login")

# Persistence

With a Codec that knows the destination types, SaveSnapshots writes every
mounted stack to a snapshot.Store, deleting stored stacks that have since
been unmounted, and RestoreSnapshots rebuilds them.
*/
package navigator
