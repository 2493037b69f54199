package rbac

// Default portal policy. Admins hold everything; students see their
// own exams and results.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"paper:view",
		"result:submit",
		"dashboard:view-own",
	},
	"admin": {
		"*", // everything
	},
}
