package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-board/internal/board"
	"github.com/yukikurage/project-board/internal/config"
	"github.com/yukikurage/project-board/internal/dragdrop"
	"github.com/yukikurage/project-board/internal/dto"
)

const ungroupedArg = "ungrouped"

func loginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and store the API token in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			resp, err := a.client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			cfg := a.cfg
			cfg.Token = resp.Token
			if err := config.SaveClient(a.configPath, cfg); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token expires %s)\n",
				resp.User.Name, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			cfg := a.cfg
			cfg.Token = ""
			return config.SaveClient(a.configPath, cfg)
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func orgsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List your organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orgs, err := a.client.ListOrganizations(cmd.Context())
			if err != nil {
				return err
			}
			for _, org := range orgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %s\n", org.ID, org.Role, org.Name)
			}
			return nil
		},
	}
}

func projectsCmd(a *app) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "projects <orgID>",
		Short: "List an organization's projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.ListProjects(cmd.Context(), args[0], page, limit)
			if err != nil {
				return err
			}
			for _, p := range result.Projects {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %s\n", p.ID, p.Status, p.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d projects\n", result.Page, len(result.Projects), result.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "projects per page")
	return cmd
}

func treeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <projectID>",
		Short: "Print the project's task tree by group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.syncer.Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderTree(cmd.OutOrStdout(), project)
		},
	}
}

func addCmd(a *app) *cobra.Command {
	var parentID, groupID string
	cmd := &cobra.Command{
		Use:   "add <projectID> <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateTaskRequest{Title: args[1]}
			if parentID != "" {
				req.ParentID = &parentID
			}
			if groupID != "" && groupID != ungroupedArg {
				req.TaskGroupID = &groupID
			}

			result := a.syncer.CreateTask(cmd.Context(), args[0], req)
			if result.Err != nil {
				return result.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q\n", result.Value.ID, result.Value.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "parent task id")
	cmd.Flags().StringVar(&groupID, "group", "", "task group id")
	return cmd
}

func toggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <projectID> <taskID>",
		Short: "Flip a task between completed and pending",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.syncer.ToggleStatus(cmd.Context(), args[0], args[1])
			if result.Err != nil {
				return result.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", result.Value.ID, result.Value.Status)
			return nil
		},
	}
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <projectID> <taskID>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.syncer.DeleteTask(cmd.Context(), args[0], args[1]).Err
		},
	}
}

func moveCmd(a *app) *cobra.Command {
	var onto, position, group string
	cmd := &cobra.Command{
		Use:   "move <projectID> <taskID>",
		Short: "Drop a task onto another task or into a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := board.NewSession(args[0], a.syncer, a.logger)
			session.PickUp(args[1])

			var err error
			switch {
			case onto != "" && group != "":
				return errors.New("use either --onto or --group")
			case onto != "":
				pos, ok := dragdrop.ParsePosition(position)
				if !ok {
					return fmt.Errorf("invalid position %q: want top, center or bottom", position)
				}
				err = session.HoverTaskAt(onto, pos)
			case group != "":
				err = session.HoverGroup(groupArg(group))
			default:
				return errors.New("one of --onto or --group is required")
			}
			if err != nil {
				session.Cancel()
				return err
			}

			intent, err := session.Release(cmd.Context())
			if err != nil {
				return err
			}
			if intent.Kind == dragdrop.IntentNone {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing moved")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", intent.Kind, intent.TaskID)
			return nil
		},
	}
	cmd.Flags().StringVar(&onto, "onto", "", "target task id")
	cmd.Flags().StringVar(&position, "position", string(dragdrop.PositionCenter), "drop zone on the target: top, center or bottom")
	cmd.Flags().StringVar(&group, "group", "", "target group id, or \"ungrouped\"")
	return cmd
}

func reorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <projectID> <taskID>...",
		Short: "Set the order of sibling tasks",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.syncer.ReorderTasks(cmd.Context(), args[0], args[1:])
			if result.Err != nil {
				return result.Err
			}
			for _, item := range result.Value {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", item.OrderIndex, item.ID)
			}
			return nil
		},
	}
}

func groupArg(s string) *string {
	if s == ungroupedArg {
		return nil
	}
	return &s
}
